package linking

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"horizon/internal/domain/aggregation"
	"horizon/internal/domain/banklink"
	"horizon/internal/domain/payments"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperr"
)

var (
	linkMeter    = otel.Meter("horizon/linking")
	linkTotal, _ = linkMeter.Int64Counter("horizon.links.total",
		metric.WithDescription("Public token exchanges by outcome"),
	)
)

// Service turns a public token from the link widget into a persisted bank
// link with a payments funding source behind it.
type Service struct {
	aggregator  aggregation.Provider
	funding     FundingSourceAdder
	links       BankLinkCreator
	invalidator ViewInvalidator
}

// NewService creates a new linking service. invalidator may be nil.
func NewService(aggregator aggregation.Provider, funding FundingSourceAdder, links BankLinkCreator, invalidator ViewInvalidator) *Service {
	return &Service{
		aggregator:  aggregator,
		funding:     funding,
		links:       links,
		invalidator: invalidator,
	}
}

// CreateLinkToken returns the token the client opens the link widget with.
func (s *Service) CreateLinkToken(ctx context.Context, profile *user.Profile) (string, error) {
	const op = "linking.CreateLinkToken"

	if profile == nil {
		return "", apperr.Validation(op, ErrProfileRequired)
	}

	token, err := s.aggregator.CreateLinkToken(ctx, aggregation.LinkTokenRequest{
		ClientUserID: profile.IdentityID,
		ClientName:   profile.FullName(),
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", profile.ID).Msg("failed to create link token")
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}
	return token, nil
}

// ExchangePublicToken runs the link pipeline. Nothing is persisted unless
// every provider step succeeded.
func (s *Service) ExchangePublicToken(ctx context.Context, publicToken string, profile *user.Profile) (*ExchangeResult, error) {
	result, err := s.exchange(ctx, publicToken, profile)
	outcome := "complete"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	linkTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	return result, err
}

func (s *Service) exchange(ctx context.Context, publicToken string, profile *user.Profile) (*ExchangeResult, error) {
	const op = "linking.ExchangePublicToken"

	if strings.TrimSpace(publicToken) == "" {
		return nil, apperr.Validation(op, aggregation.ErrEmptyPublicToken)
	}
	if profile == nil {
		return nil, apperr.Validation(op, ErrProfileRequired)
	}
	if !profile.HasPaymentsCustomer() {
		return nil, apperr.Validation(op, ErrNoPaymentsCustomer)
	}

	logger := log.With().Str("user_id", profile.ID).Logger()

	exchange, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		logger.Error().Err(err).Msg("failed to exchange public token")
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}

	accounts, err := s.aggregator.GetAccounts(ctx, exchange.AccessToken)
	if err != nil {
		logger.Error().Err(err).Str("item_id", exchange.ItemID).Msg("failed to get accounts")
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}

	account, err := selectAccount(accounts.Accounts)
	if err != nil {
		return nil, apperr.Upstream(op, err)
	}

	processorToken, err := s.aggregator.CreateProcessorToken(ctx, exchange.AccessToken, account.ID)
	if err != nil {
		logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to create processor token")
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}

	fundingSourceURL, err := s.funding.AddFundingSource(ctx, payments.AddFundingSourceParams{
		CustomerID:     profile.PaymentsCustomerID,
		ProcessorToken: processorToken,
		BankName:       account.DisplayName(),
	})
	if err != nil {
		logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to add funding source")
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}
	if fundingSourceURL == "" {
		return nil, apperr.Upstream(op, ErrNoFundingSource)
	}

	link, err := s.links.CreateBankLink(ctx, banklink.CreateParams{
		UserID:           profile.ID,
		BankID:           exchange.ItemID,
		AccountID:        account.ID,
		AccessToken:      exchange.AccessToken,
		FundingSourceURL: fundingSourceURL,
		ShareableID:      banklink.EncryptID(account.ID),
	})
	if err != nil {
		logger.Error().Err(err).Str("account_id", account.ID).Msg("funding source created but bank link not saved")
		return nil, apperr.Wrap(apperr.KindPersistenceFailed, op, err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateUserViews(ctx, profile.ID); err != nil {
			logger.Warn().Err(err).Msg("failed to signal view invalidation")
		}
		s.invalidator.NotifyBankLinked(ctx, profile.ID, account.DisplayName())
	}

	logger.Info().Str("bank_link_id", link.ID).Str("item_id", exchange.ItemID).Msg("bank linked")
	return &ExchangeResult{Status: StatusComplete, BankLink: link}, nil
}

// selectAccount picks the account to link from an item. Items with several
// accounts only ever link the first one.
func selectAccount(accounts []aggregation.Account) (aggregation.Account, error) {
	if len(accounts) == 0 {
		return aggregation.Account{}, aggregation.ErrNoAccounts
	}
	return accounts[0], nil
}
