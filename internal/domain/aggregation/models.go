package aggregation

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoAccounts           = errors.New("no accounts returned for access token")
	ErrLinkedAccountMissing = errors.New("linked account no longer returned by provider")
	ErrEmptyPublicToken     = errors.New("public token is required")
)

// TokenExchange is the durable credential obtained from a public token.
type TokenExchange struct {
	AccessToken string
	ItemID      string
}

type Balances struct {
	Available       decimal.NullDecimal `json:"available"`
	Current         decimal.Decimal     `json:"current"`
	ISOCurrencyCode string              `json:"isoCurrencyCode"`
}

type Account struct {
	ID           string   `json:"accountId"`
	Name         string   `json:"name"`
	OfficialName string   `json:"officialName"`
	Mask         string   `json:"mask"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
	Balances     Balances `json:"balances"`
}

// DisplayName is the name used for the payments funding source.
func (a Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.OfficialName
}

type AccountsResult struct {
	Accounts      []Account
	ItemID        string
	InstitutionID string
}

type Institution struct {
	ID   string `json:"institutionId"`
	Name string `json:"name"`
}

// Transaction amounts follow the provider's sign: positive is money leaving the account.
type Transaction struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"accountId"`
	Name            string          `json:"name"`
	MerchantName    string          `json:"merchantName"`
	PaymentChannel  string          `json:"paymentChannel"`
	Amount          decimal.Decimal `json:"amount"`
	ISOCurrencyCode string          `json:"isoCurrencyCode"`
	Pending         bool            `json:"pending"`
	Category        string          `json:"category"`
	Date            time.Time       `json:"date"`
	LogoURL         string          `json:"logoUrl"`
}

type LinkTokenRequest struct {
	ClientUserID string
	ClientName   string
}
