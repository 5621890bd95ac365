package banklink

import "context"

// Repository defines the interface for bank link data access.
// (user_id, account_id) is unique; access tokens are encrypted at rest by the implementation.
type Repository interface {
	// Create returns ErrDuplicateBankLink on a (user, account) conflict
	Create(ctx context.Context, params CreateParams) (*BankLink, error)

	// GetByID returns ErrBankLinkNotFound when missing
	GetByID(ctx context.Context, id string) (*BankLink, error)

	// ListByUserID returns the user's links, oldest first
	ListByUserID(ctx context.Context, userID string) ([]*BankLink, error)

	// ListByAccountID returns every link for a provider account id
	ListByAccountID(ctx context.Context, accountID string) ([]*BankLink, error)
}
