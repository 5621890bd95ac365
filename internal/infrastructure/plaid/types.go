package plaid

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// APIError is the error body Plaid returns on any non-200 response.
type APIError struct {
	StatusCode     int    `json:"-"`
	ErrorType      string `json:"error_type"`
	ErrorCode      string `json:"error_code"`
	ErrorMessage   string `json:"error_message"`
	DisplayMessage string `json:"display_message"`
	RequestID      string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plaid error (status %d): %s - %s", e.StatusCode, e.ErrorCode, e.ErrorMessage)
}

// Temporary reports whether the failure is on Plaid's side.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

type credentials struct {
	ClientID string `json:"client_id"`
	Secret   string `json:"secret"`
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenCreateRequest struct {
	credentials
	User         linkTokenUser `json:"user"`
	ClientName   string        `json:"client_name"`
	Products     []string      `json:"products"`
	Language     string        `json:"language"`
	CountryCodes []string      `json:"country_codes"`
}

type linkTokenCreateResponse struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
}

type publicTokenExchangeRequest struct {
	credentials
	PublicToken string `json:"public_token"`
}

type publicTokenExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

type accessTokenRequest struct {
	credentials
	AccessToken string `json:"access_token"`
}

type balances struct {
	Available       decimal.NullDecimal `json:"available"`
	Current         decimal.NullDecimal `json:"current"`
	ISOCurrencyCode string              `json:"iso_currency_code"`
}

type account struct {
	AccountID    string   `json:"account_id"`
	Balances     balances `json:"balances"`
	Mask         string   `json:"mask"`
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
}

type item struct {
	ItemID        string `json:"item_id"`
	InstitutionID string `json:"institution_id"`
}

type accountsGetResponse struct {
	Accounts []account `json:"accounts"`
	Item     item      `json:"item"`
}

type processorTokenCreateRequest struct {
	credentials
	AccessToken string `json:"access_token"`
	AccountID   string `json:"account_id"`
	Processor   string `json:"processor"`
}

type processorTokenCreateResponse struct {
	ProcessorToken string `json:"processor_token"`
}

type institutionGetRequest struct {
	credentials
	InstitutionID string   `json:"institution_id"`
	CountryCodes  []string `json:"country_codes"`
}

type institutionGetResponse struct {
	Institution struct {
		InstitutionID string `json:"institution_id"`
		Name          string `json:"name"`
	} `json:"institution"`
}

type transactionsSyncRequest struct {
	credentials
	AccessToken string `json:"access_token"`
	Cursor      string `json:"cursor,omitempty"`
}

type personalFinanceCategory struct {
	Primary string `json:"primary"`
}

type transaction struct {
	TransactionID           string                   `json:"transaction_id"`
	AccountID               string                   `json:"account_id"`
	Name                    string                   `json:"name"`
	MerchantName            string                   `json:"merchant_name"`
	PaymentChannel          string                   `json:"payment_channel"`
	Amount                  decimal.Decimal          `json:"amount"`
	ISOCurrencyCode         string                   `json:"iso_currency_code"`
	Pending                 bool                     `json:"pending"`
	Category                []string                 `json:"category"`
	PersonalFinanceCategory *personalFinanceCategory `json:"personal_finance_category"`
	Date                    string                   `json:"date"`
	LogoURL                 string                   `json:"logo_url"`
}

type transactionsSyncResponse struct {
	Added      []transaction `json:"added"`
	HasMore    bool          `json:"has_more"`
	NextCursor string        `json:"next_cursor"`
}
