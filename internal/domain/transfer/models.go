package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"horizon/internal/domain/banklink"
	"horizon/internal/domain/notification"
	"horizon/internal/domain/payments"
)

// Values stored on every transfer record.
const (
	ChannelOnline    = "online"
	CategoryTransfer = "Transfer"
)

// Domain errors
var (
	ErrMissingFundingSource = errors.New("source and destination funding sources are required")
	ErrSameAccount          = errors.New("cannot transfer to the same account")
	ErrNameRequired         = errors.New("transfer note is required")
)

// Request is an ephemeral instruction to move money between two funding sources.
type Request struct {
	SourceFundingSourceURL      string
	DestinationFundingSourceURL string
	Amount                      string
	IdempotencyKey              string
}

// Record is the app-side trace of a completed transfer, listed in both
// parties' transaction histories.
type Record struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Amount         decimal.Decimal `json:"amount"`
	SenderID       string          `json:"senderId"`
	SenderBankID   string          `json:"senderBankId"`
	ReceiverID     string          `json:"receiverId"`
	ReceiverBankID string          `json:"receiverBankId"`
	Email          string          `json:"email"`
	Channel        string          `json:"channel"`
	Category       string          `json:"category"`
	TransferURL    string          `json:"transferUrl"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type CreateRecordParams struct {
	Name           string
	Amount         decimal.Decimal
	SenderID       string
	SenderBankID   string
	ReceiverID     string
	ReceiverBankID string
	Email          string
	TransferURL    string
}

// SendParams is a user-initiated payment to another user's shareable id.
type SendParams struct {
	SenderID             string
	SourceBankLinkID     string
	RecipientShareableID string
	Amount               string
	Name                 string
	Email                string
	IdempotencyKey       string
}

func (p SendParams) Validate() error {
	switch {
	case p.SenderID == "":
		return errors.New("sender ID is required")
	case p.SourceBankLinkID == "":
		return errors.New("source bank is required")
	case p.RecipientShareableID == "":
		return errors.New("recipient shareable ID is required")
	case p.Name == "":
		return ErrNameRequired
	}
	return nil
}

// Initiator submits transfers to the payments provider.
type Initiator interface {
	CreateTransfer(ctx context.Context, params payments.TransferParams) (string, error)
}

// BankLinks resolves the two ends of a transfer.
type BankLinks interface {
	GetOwnedBankLink(ctx context.Context, userID, id string) (*banklink.BankLink, error)
	GetBankLinkByShareableID(ctx context.Context, shareableID string) (*banklink.BankLink, error)
}

// Notifier is told about completed transfers.
type Notifier interface {
	NotifyTransfer(ctx context.Context, notice notification.TransferNotice)
	InvalidateUserViews(ctx context.Context, userID string) error
}
