package transfer

import "context"

// Repository defines the interface for transfer record data access.
type Repository interface {
	Create(ctx context.Context, params CreateRecordParams) (*Record, error)

	// ListByBankLinkID returns records where the link is sender or receiver, newest first
	ListByBankLinkID(ctx context.Context, bankLinkID string) ([]*Record, error)
}
