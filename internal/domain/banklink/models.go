package banklink

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrBankLinkNotFound   = errors.New("bank link not found")
	ErrDuplicateBankLink  = errors.New("account already linked for this user")
	ErrAmbiguousAccountID = errors.New("account id matches more than one bank link")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidShareableID = errors.New("invalid shareable id")
)

// BankLink ties a user to one externally linked bank account and the
// payments funding source opened for it. Rows are append-only.
type BankLink struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	BankID           string    `json:"bankId"`
	AccountID        string    `json:"accountId"`
	AccessToken      string    `json:"-"`
	FundingSourceURL string    `json:"fundingSourceUrl"`
	ShareableID      string    `json:"shareableId"`
	CreatedAt        time.Time `json:"createdAt"`
}

type CreateParams struct {
	UserID           string
	BankID           string
	AccountID        string
	AccessToken      string
	FundingSourceURL string
	ShareableID      string
}

func (p CreateParams) Validate() error {
	switch {
	case p.UserID == "":
		return errors.New("user ID is required")
	case p.BankID == "":
		return errors.New("bank (item) ID is required")
	case p.AccountID == "":
		return errors.New("account ID is required")
	case p.AccessToken == "":
		return errors.New("access token is required")
	case p.FundingSourceURL == "":
		return errors.New("funding source URL is required")
	case p.ShareableID == "":
		return errors.New("shareable ID is required")
	}
	return nil
}
