package payments

import "context"

// Provider is the payments platform funding sources and transfers live on.
// Every create call returns the location URL of the new resource.
type Provider interface {
	CreateCustomer(ctx context.Context, customer NewCustomer) (string, error)
	DeactivateCustomer(ctx context.Context, customerURL string) error
	CreateOnDemandAuthorization(ctx context.Context) (*Authorization, error)
	CreateFundingSource(ctx context.Context, params FundingSourceParams) (string, error)
	CreateTransfer(ctx context.Context, params TransferParams) (string, error)
}
