package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/internal/shared/apperr"
)

// MockProvider is a mock implementation of Provider
type MockProvider struct {
	CreateCustomerFunc              func(ctx context.Context, customer NewCustomer) (string, error)
	DeactivateCustomerFunc          func(ctx context.Context, customerURL string) error
	CreateOnDemandAuthorizationFunc func(ctx context.Context) (*Authorization, error)
	CreateFundingSourceFunc         func(ctx context.Context, params FundingSourceParams) (string, error)
	CreateTransferFunc              func(ctx context.Context, params TransferParams) (string, error)
}

func (m *MockProvider) CreateCustomer(ctx context.Context, customer NewCustomer) (string, error) {
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, customer)
	}
	return "", nil
}

func (m *MockProvider) DeactivateCustomer(ctx context.Context, customerURL string) error {
	if m.DeactivateCustomerFunc != nil {
		return m.DeactivateCustomerFunc(ctx, customerURL)
	}
	return nil
}

func (m *MockProvider) CreateOnDemandAuthorization(ctx context.Context) (*Authorization, error) {
	if m.CreateOnDemandAuthorizationFunc != nil {
		return m.CreateOnDemandAuthorizationFunc(ctx)
	}
	return &Authorization{SelfURL: "https://api.example.com/on-demand-authorizations/auth-1"}, nil
}

func (m *MockProvider) CreateFundingSource(ctx context.Context, params FundingSourceParams) (string, error) {
	if m.CreateFundingSourceFunc != nil {
		return m.CreateFundingSourceFunc(ctx, params)
	}
	return "", nil
}

func (m *MockProvider) CreateTransfer(ctx context.Context, params TransferParams) (string, error) {
	if m.CreateTransferFunc != nil {
		return m.CreateTransferFunc(ctx, params)
	}
	return "", nil
}

func validCustomer() NewCustomer {
	return NewCustomer{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		Address1:    "12 Analytical Way",
		City:        "New York",
		State:       "NY",
		PostalCode:  "10001",
		DateOfBirth: "1990-12-10",
		SSN:         "1234",
	}
}

func TestExtractCustomerID(t *testing.T) {
	assert.Equal(t, "abc-123", ExtractCustomerID("https://api-sandbox.dwolla.com/customers/abc-123"))
	assert.Equal(t, "abc-123", ExtractCustomerID("https://api-sandbox.dwolla.com/customers/abc-123/"))
	assert.Equal(t, "abc", ExtractCustomerID("abc"))
	assert.Equal(t, "", ExtractCustomerID(""))
}

func TestService_CreateCustomer(t *testing.T) {
	t.Run("returns location", func(t *testing.T) {
		svc := NewService(&MockProvider{
			CreateCustomerFunc: func(ctx context.Context, c NewCustomer) (string, error) {
				assert.Equal(t, "1234", c.SSN)
				return "https://api.example.com/customers/cust-1", nil
			},
		})

		url, err := svc.CreateCustomer(context.Background(), validCustomer())
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/customers/cust-1", url)
	})

	t.Run("missing fields", func(t *testing.T) {
		c := validCustomer()
		c.City = ""
		_, err := NewService(&MockProvider{}).CreateCustomer(context.Background(), c)
		assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
	})

	t.Run("provider failure", func(t *testing.T) {
		svc := NewService(&MockProvider{
			CreateCustomerFunc: func(ctx context.Context, c NewCustomer) (string, error) {
				return "", errors.New("connection refused")
			},
		})
		_, err := svc.CreateCustomer(context.Background(), validCustomer())
		assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
	})

	t.Run("provider rejection keeps its kind", func(t *testing.T) {
		svc := NewService(&MockProvider{
			CreateCustomerFunc: func(ctx context.Context, c NewCustomer) (string, error) {
				return "", apperr.Validation("dwolla", errors.New("ValidationError"))
			},
		})
		_, err := svc.CreateCustomer(context.Background(), validCustomer())
		assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
	})

	t.Run("empty location", func(t *testing.T) {
		_, err := NewService(&MockProvider{}).CreateCustomer(context.Background(), validCustomer())
		assert.ErrorIs(t, err, ErrMissingLocation)
	})
}

func TestService_AddFundingSource(t *testing.T) {
	t.Run("passes authorization to funding source", func(t *testing.T) {
		var got FundingSourceParams
		svc := NewService(&MockProvider{
			CreateFundingSourceFunc: func(ctx context.Context, p FundingSourceParams) (string, error) {
				got = p
				return "https://api.example.com/funding-sources/fs-1", nil
			},
		})

		url, err := svc.AddFundingSource(context.Background(), AddFundingSourceParams{
			CustomerID:     "cust-1",
			ProcessorToken: "processor-token",
			BankName:       "Plaid Checking",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/funding-sources/fs-1", url)
		assert.Equal(t, "https://api.example.com/on-demand-authorizations/auth-1", got.AuthorizationURL)
		assert.Equal(t, "Plaid Checking", got.FundingSourceName)
		assert.Equal(t, "processor-token", got.PlaidToken)
	})

	t.Run("authorization failure stops before funding source", func(t *testing.T) {
		called := false
		svc := NewService(&MockProvider{
			CreateOnDemandAuthorizationFunc: func(ctx context.Context) (*Authorization, error) {
				return nil, errors.New("timeout")
			},
			CreateFundingSourceFunc: func(ctx context.Context, p FundingSourceParams) (string, error) {
				called = true
				return "x", nil
			},
		})

		_, err := svc.AddFundingSource(context.Background(), AddFundingSourceParams{CustomerID: "c", ProcessorToken: "p"})
		assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
		assert.False(t, called)
	})

	t.Run("funding source without location", func(t *testing.T) {
		_, err := NewService(&MockProvider{}).AddFundingSource(context.Background(), AddFundingSourceParams{CustomerID: "c", ProcessorToken: "p"})
		assert.ErrorIs(t, err, ErrMissingLocation)
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := NewService(&MockProvider{}).AddFundingSource(context.Background(), AddFundingSourceParams{ProcessorToken: "p"})
		assert.ErrorIs(t, err, ErrMissingCustomerID)
	})
}

func TestService_CreateFundingSource_RequiresAuthorization(t *testing.T) {
	_, err := NewService(&MockProvider{}).CreateFundingSource(context.Background(), FundingSourceParams{
		CustomerID: "c",
		PlaidToken: "p",
	})
	assert.ErrorIs(t, err, ErrMissingAuthorization)
}

func TestService_CreateTransfer(t *testing.T) {
	params := TransferParams{
		SourceFundingSourceURL:      "https://api.example.com/funding-sources/a",
		DestinationFundingSourceURL: "https://api.example.com/funding-sources/b",
		Amount:                      decimal.RequireFromString("100.00"),
	}

	t.Run("success", func(t *testing.T) {
		svc := NewService(&MockProvider{
			CreateTransferFunc: func(ctx context.Context, p TransferParams) (string, error) {
				assert.Equal(t, "100.00", p.Amount.StringFixed(2))
				return "https://api.example.com/transfers/t-1", nil
			},
		})
		url, err := svc.CreateTransfer(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/transfers/t-1", url)
	})

	t.Run("rejected", func(t *testing.T) {
		svc := NewService(&MockProvider{
			CreateTransferFunc: func(ctx context.Context, p TransferParams) (string, error) {
				return "", errors.New("insufficient funds")
			},
		})
		_, err := svc.CreateTransfer(context.Background(), params)
		assert.Error(t, err)
	})

	t.Run("missing destination", func(t *testing.T) {
		p := params
		p.DestinationFundingSourceURL = ""
		_, err := NewService(&MockProvider{}).CreateTransfer(context.Background(), p)
		assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
	})
}
