package linking

import (
	"context"
	"errors"

	"horizon/internal/domain/banklink"
	"horizon/internal/domain/payments"
)

// StatusComplete is the only status a successful exchange reports.
const StatusComplete = "complete"

// Domain errors
var (
	ErrNoPaymentsCustomer = errors.New("user has no payments customer")
	ErrNoFundingSource    = errors.New("funding source was not created")
	ErrProfileRequired    = errors.New("user profile is required")
)

type ExchangeResult struct {
	Status   string             `json:"publicTokenExchange"`
	BankLink *banklink.BankLink `json:"bankLink"`
}

// FundingSourceAdder opens a payments funding source for a processor token.
type FundingSourceAdder interface {
	AddFundingSource(ctx context.Context, params payments.AddFundingSourceParams) (string, error)
}

// BankLinkCreator persists the finished link.
type BankLinkCreator interface {
	CreateBankLink(ctx context.Context, params banklink.CreateParams) (*banklink.BankLink, error)
}

// ViewInvalidator is told when a user's account views went stale.
type ViewInvalidator interface {
	InvalidateUserViews(ctx context.Context, userID string) error
	NotifyBankLinked(ctx context.Context, userID, bankName string)
}
