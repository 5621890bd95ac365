package payments

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the only currency transfers are made in.
const Currency = "USD"

// Domain errors
var (
	ErrMissingLocation      = errors.New("provider response carried no resource location")
	ErrMissingCustomerID    = errors.New("payments customer id is required")
	ErrMissingProcessor     = errors.New("processor token is required")
	ErrMissingAuthorization = errors.New("on-demand authorization is required before creating a funding source")
	ErrInvalidCustomer      = errors.New("customer is missing required fields")
)

// NewCustomer is a "personal" verified customer. SSN is the last four digits
// and is passed through to the provider only.
type NewCustomer struct {
	FirstName      string
	LastName       string
	Email          string
	Address1       string
	City           string
	State          string
	PostalCode     string
	DateOfBirth    string
	SSN            string
	IdempotencyKey string
}

func (c NewCustomer) Validate() error {
	for _, v := range []string{c.FirstName, c.LastName, c.Email, c.Address1, c.City, c.State, c.PostalCode, c.DateOfBirth, c.SSN} {
		if strings.TrimSpace(v) == "" {
			return ErrInvalidCustomer
		}
	}
	return nil
}

// Authorization is an on-demand transfer consent. SelfURL is passed along
// when a funding source is created under it.
type Authorization struct {
	SelfURL    string `json:"selfUrl"`
	BodyText   string `json:"bodyText"`
	ButtonText string `json:"buttonText"`
}

type FundingSourceParams struct {
	CustomerID        string
	FundingSourceName string
	PlaidToken        string
	AuthorizationURL  string
}

func (p FundingSourceParams) Validate() error {
	switch {
	case p.CustomerID == "":
		return ErrMissingCustomerID
	case p.PlaidToken == "":
		return ErrMissingProcessor
	case p.AuthorizationURL == "":
		return ErrMissingAuthorization
	}
	return nil
}

type AddFundingSourceParams struct {
	CustomerID     string
	ProcessorToken string
	BankName       string
}

type TransferParams struct {
	SourceFundingSourceURL      string
	DestinationFundingSourceURL string
	Amount                      decimal.Decimal
	IdempotencyKey              string
}

// ExtractCustomerID returns the last path segment of a customer location URL.
func ExtractCustomerID(customerURL string) string {
	trimmed := strings.TrimRight(customerURL, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
