package dwolla

import (
	"fmt"
	"net/http"
	"strings"
)

type link struct {
	Href string `json:"href"`
}

type customerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type authorizationResponse struct {
	Links struct {
		Self link `json:"self"`
	} `json:"_links"`
	BodyText   string `json:"bodyText"`
	ButtonText string `json:"buttonText"`
}

type fundingSourceRequest struct {
	Name       string `json:"name"`
	PlaidToken string `json:"plaidToken"`
	Links      struct {
		OnDemandAuthorization link `json:"on-demand-authorization"`
	} `json:"_links"`
}

type amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type transferRequest struct {
	Links struct {
		Source      link `json:"source"`
		Destination link `json:"destination"`
	} `json:"_links"`
	Amount amount `json:"amount"`
}

// APIError is the error body Dwolla returns on a rejected request.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Embedded   struct {
		Errors []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Path    string `json:"path"`
		} `json:"errors"`
	} `json:"_embedded"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("dwolla: %d %s: %s", e.StatusCode, e.Code, e.Message)
	if len(e.Embedded.Errors) == 0 {
		return msg
	}
	details := make([]string, 0, len(e.Embedded.Errors))
	for _, d := range e.Embedded.Errors {
		details = append(details, fmt.Sprintf("%s %s", d.Path, d.Message))
	}
	return msg + " (" + strings.Join(details, "; ") + ")"
}

// Temporary reports whether retrying the same request may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}
