package aggregation

import "context"

// Provider is the bank-data aggregator the app links accounts through.
// Implemented by the Plaid client in the infrastructure layer.
type Provider interface {
	CreateLinkToken(ctx context.Context, req LinkTokenRequest) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*TokenExchange, error)
	GetAccounts(ctx context.Context, accessToken string) (*AccountsResult, error)
	// CreateProcessorToken mints a token the payments provider can open a funding source with
	CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error)
	GetInstitution(ctx context.Context, institutionID string) (*Institution, error)
	// SyncTransactions pages through every added transaction for the item
	SyncTransactions(ctx context.Context, accessToken string) ([]Transaction, error)
}
