package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	"horizon/internal/shared/apperr"
	"horizon/internal/shared/messages"
)

// Service contains the business logic for notification operations.
// messenger and publisher may be nil when FCM or Redis are not configured.
type Service struct {
	repo      Repository
	messenger Messenger
	publisher Publisher
	texts     *messages.Messages
}

// NewService creates a new notification service
func NewService(repo Repository, messenger Messenger, publisher Publisher, texts *messages.Messages) *Service {
	if texts == nil {
		texts = messages.Default()
	}
	return &Service{repo: repo, messenger: messenger, publisher: publisher, texts: texts}
}

// RegisterDevice registers a device token for the authenticated user.
// If the token already belongs to another user, it is reassigned.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	const op = "notification.RegisterDevice"

	if err := params.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}

	token, err := s.repo.UpsertDeviceToken(ctx, params)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return token, nil
}

// DeactivateToken is handed to the FCM client for tokens it finds unregistered.
func (s *Service) DeactivateToken(ctx context.Context, token string) error {
	return s.repo.DeactivateToken(ctx, token)
}

// InvalidateUserViews signals that anything derived from the user's bank
// links is stale. Both channels are best effort; the first error is returned
// so callers can log it.
func (s *Service) InvalidateUserViews(ctx context.Context, userID string) error {
	const op = "notification.InvalidateUserViews"

	if userID == "" {
		return apperr.Validation(op, ErrUserIDRequired)
	}

	var firstErr error
	if s.publisher != nil {
		if err := s.publisher.PublishViewsChanged(ctx, userID); err != nil {
			firstErr = apperr.Upstream(op, err)
		}
	}

	if s.messenger != nil {
		tokens, err := s.activeTokens(ctx, userID)
		if err != nil {
			if firstErr == nil {
				firstErr = apperr.Persistence(op, err)
			}
			return firstErr
		}
		if len(tokens) > 0 {
			data := map[string]string{"event": EventViewsChanged}
			if err := s.messenger.SendDataOnly(ctx, tokens, data); err != nil && firstErr == nil {
				firstErr = apperr.Upstream(op, err)
			}
		}
	}

	return firstErr
}

// NotifyBankLinked tells the user a new bank finished linking.
func (s *Service) NotifyBankLinked(ctx context.Context, userID, bankName string) {
	text := s.texts.BankLinked.Format(map[string]string{"bank": bankName})
	s.SendToUser(ctx, userID, text, CategoryAccounts, nil)
}

// NotifyTransfer pushes a message to the sender and to the recipient.
func (s *Service) NotifyTransfer(ctx context.Context, notice TransferNotice) {
	sent := s.texts.TransferSent.Format(map[string]string{
		"amount":    notice.Amount,
		"recipient": notice.RecipientName,
	})
	s.SendToUser(ctx, notice.SenderUserID, sent, CategoryTransfers, nil)

	if notice.RecipientUserID != "" && notice.RecipientUserID != notice.SenderUserID {
		received := s.texts.TransferReceived.Format(map[string]string{"amount": notice.Amount})
		s.SendToUser(ctx, notice.RecipientUserID, received, CategoryTransfers, nil)
	}
}

// SendToUser sends a push notification to every active device of a user.
// Failures are logged; push is never on the critical path.
func (s *Service) SendToUser(ctx context.Context, userID string, text messages.MessageText, category string, data map[string]string) {
	if s.messenger == nil {
		return
	}

	tokens, err := s.activeTokens(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load device tokens")
		return
	}
	if len(tokens) == 0 {
		log.Debug().Str("user_id", userID).Msg("no active device tokens")
		return
	}

	if data == nil {
		data = make(map[string]string)
	}
	if _, ok := data["route"]; !ok {
		data["route"] = category
	}

	if err := s.messenger.SendMulticast(ctx, tokens, text.Title, text.Body, data); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("error sending notification")
	}
}

func (s *Service) activeTokens(ctx context.Context, userID string) ([]string, error) {
	tokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Token
	}
	return out, nil
}
