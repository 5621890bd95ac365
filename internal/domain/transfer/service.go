package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"horizon/internal/domain/notification"
	"horizon/internal/domain/payments"
	"horizon/internal/shared/apperr"
	"horizon/internal/shared/money"
)

var (
	transferMeter    = otel.Meter("horizon/transfer")
	transferTotal, _ = transferMeter.Int64Counter("horizon.transfers.total",
		metric.WithDescription("Transfers submitted by outcome"),
	)
)

type Service struct {
	initiator Initiator
	links     BankLinks
	repo      Repository
	notifier  Notifier
	now       func() time.Time
}

// NewService creates a new transfer service. notifier may be nil.
func NewService(initiator Initiator, links BankLinks, repo Repository, notifier Notifier) *Service {
	return &Service{initiator: initiator, links: links, repo: repo, notifier: notifier, now: time.Now}
}

// CreateTransfer moves amount (a decimal string, USD) between two funding
// sources and returns the provider's transfer URL.
func (s *Service) CreateTransfer(ctx context.Context, req Request) (string, error) {
	const op = "transfer.CreateTransfer"

	if req.SourceFundingSourceURL == "" || req.DestinationFundingSourceURL == "" {
		return "", apperr.Validation(op, ErrMissingFundingSource)
	}

	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		return "", apperr.Validation(op, err)
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	url, err := s.initiator.CreateTransfer(ctx, payments.TransferParams{
		SourceFundingSourceURL:      req.SourceFundingSourceURL,
		DestinationFundingSourceURL: req.DestinationFundingSourceURL,
		Amount:                      amount,
		IdempotencyKey:              key,
	})

	outcome := "created"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	transferTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}
	return url, nil
}

// Send pays another user from one of the sender's own bank links. The
// recipient is addressed by shareable id. Once the provider accepted the
// transfer a failure to store the record is logged, not returned, so the
// caller never retries a transfer that already went through.
func (s *Service) Send(ctx context.Context, params SendParams) (*Record, error) {
	const op = "transfer.Send"

	if err := params.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}

	source, err := s.links.GetOwnedBankLink(ctx, params.SenderID, params.SourceBankLinkID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, op, err)
	}

	recipient, err := s.links.GetBankLinkByShareableID(ctx, params.RecipientShareableID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, op, err)
	}
	if recipient.ID == source.ID {
		return nil, apperr.Validation(op, ErrSameAccount)
	}

	url, err := s.CreateTransfer(ctx, Request{
		SourceFundingSourceURL:      source.FundingSourceURL,
		DestinationFundingSourceURL: recipient.FundingSourceURL,
		Amount:                      params.Amount,
		IdempotencyKey:              params.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	// CreateTransfer already validated it.
	amount, _ := money.ParseAmount(params.Amount)

	recordParams := CreateRecordParams{
		Name:           params.Name,
		Amount:         amount,
		SenderID:       source.UserID,
		SenderBankID:   source.ID,
		ReceiverID:     recipient.UserID,
		ReceiverBankID: recipient.ID,
		Email:          params.Email,
		TransferURL:    url,
	}

	record, err := s.repo.Create(ctx, recordParams)
	if err != nil {
		log.Error().Err(err).
			Str("transfer_url", url).
			Str("sender_bank_id", source.ID).
			Str("receiver_bank_id", recipient.ID).
			Msg("transfer accepted but record not saved")
		record = recordFromParams(recordParams, s.now())
	}

	if s.notifier != nil {
		s.notifier.NotifyTransfer(ctx, notification.TransferNotice{
			SenderUserID:    source.UserID,
			RecipientUserID: recipient.UserID,
			RecipientName:   params.Name,
			Amount:          money.FormatAmount(amount),
		})
		for _, userID := range []string{source.UserID, recipient.UserID} {
			if err := s.notifier.InvalidateUserViews(ctx, userID); err != nil {
				log.Warn().Err(err).Str("user_id", userID).Msg("failed to signal view invalidation")
			}
		}
	}

	return record, nil
}

// ListByBankLink returns transfer records touching a bank link.
func (s *Service) ListByBankLink(ctx context.Context, bankLinkID string) ([]*Record, error) {
	records, err := s.repo.ListByBankLinkID(ctx, bankLinkID)
	if err != nil {
		return nil, apperr.Persistence("transfer.ListByBankLink", err)
	}
	return records, nil
}

// recordFromParams stands in for a record that could not be stored. It has
// no id; createdAt is the time the transfer was accepted.
func recordFromParams(p CreateRecordParams, createdAt time.Time) *Record {
	return &Record{
		Name:           p.Name,
		Amount:         p.Amount,
		SenderID:       p.SenderID,
		SenderBankID:   p.SenderBankID,
		ReceiverID:     p.ReceiverID,
		ReceiverBankID: p.ReceiverBankID,
		Email:          p.Email,
		Channel:        ChannelOnline,
		Category:       CategoryTransfer,
		TransferURL:    p.TransferURL,
		CreatedAt:      createdAt,
	}
}
