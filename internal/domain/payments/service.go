package payments

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"horizon/internal/shared/apperr"
)

// Service onboards users and their bank accounts with the payments provider.
type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// CreateCustomer registers a personal customer and returns its location URL.
func (s *Service) CreateCustomer(ctx context.Context, customer NewCustomer) (string, error) {
	const op = "payments.CreateCustomer"

	if err := customer.Validate(); err != nil {
		return "", apperr.Validation(op, err)
	}

	url, err := s.provider.CreateCustomer(ctx, customer)
	if err != nil {
		log.Error().Err(err).Str("email", customer.Email).Msg("failed to create payments customer")
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}
	if url == "" {
		return "", apperr.Upstream(op, ErrMissingLocation)
	}
	return url, nil
}

func (s *Service) DeactivateCustomer(ctx context.Context, customerURL string) error {
	if err := s.provider.DeactivateCustomer(ctx, customerURL); err != nil {
		return apperr.Wrap(apperr.KindUpstreamUnavailable, "payments.DeactivateCustomer", err)
	}
	return nil
}

// CreateOnDemandAuthorization mints a new consent on every call.
func (s *Service) CreateOnDemandAuthorization(ctx context.Context) (*Authorization, error) {
	const op = "payments.CreateOnDemandAuthorization"

	auth, err := s.provider.CreateOnDemandAuthorization(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to create on-demand authorization")
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}
	if auth == nil || auth.SelfURL == "" {
		return nil, apperr.Upstream(op, ErrMissingLocation)
	}
	return auth, nil
}

func (s *Service) CreateFundingSource(ctx context.Context, params FundingSourceParams) (string, error) {
	const op = "payments.CreateFundingSource"

	if err := params.Validate(); err != nil {
		return "", apperr.Validation(op, err)
	}

	url, err := s.provider.CreateFundingSource(ctx, params)
	if err != nil {
		log.Error().Err(err).Str("customer_id", params.CustomerID).Msg("failed to create funding source")
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}
	if url == "" {
		return "", apperr.Upstream(op, ErrMissingLocation)
	}
	return url, nil
}

// AddFundingSource obtains an authorization and opens a funding source under
// it. If the second step fails the authorization is simply left unused.
func (s *Service) AddFundingSource(ctx context.Context, params AddFundingSourceParams) (string, error) {
	const op = "payments.AddFundingSource"

	if params.CustomerID == "" {
		return "", apperr.Validation(op, ErrMissingCustomerID)
	}
	if params.ProcessorToken == "" {
		return "", apperr.Validation(op, ErrMissingProcessor)
	}

	auth, err := s.CreateOnDemandAuthorization(ctx)
	if err != nil {
		return "", err
	}

	return s.CreateFundingSource(ctx, FundingSourceParams{
		CustomerID:        params.CustomerID,
		FundingSourceName: params.BankName,
		PlaidToken:        params.ProcessorToken,
		AuthorizationURL:  auth.SelfURL,
	})
}

// CreateTransfer submits a USD transfer between two funding sources.
func (s *Service) CreateTransfer(ctx context.Context, params TransferParams) (string, error) {
	const op = "payments.CreateTransfer"

	if params.SourceFundingSourceURL == "" || params.DestinationFundingSourceURL == "" {
		return "", apperr.Validation(op, errors.New("source and destination funding sources are required"))
	}

	url, err := s.provider.CreateTransfer(ctx, params)
	if err != nil {
		log.Error().Err(err).
			Str("source", params.SourceFundingSourceURL).
			Str("destination", params.DestinationFundingSourceURL).
			Str("amount", params.Amount.StringFixed(2)).
			Msg("transfer rejected")
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}
	if url == "" {
		return "", apperr.Upstream(op, ErrMissingLocation)
	}
	return url, nil
}
