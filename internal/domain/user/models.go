package user

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrIdentityIDRequired = errors.New("identity ID is required")
	ErrEmailRequired      = errors.New("email is required")
)

// Profile is the application's own record about a signed-up user.
type Profile struct {
	ID                  string    `json:"id"`
	IdentityID          string    `json:"identityId"`
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	Email               string    `json:"email"`
	Address1            string    `json:"address1"`
	City                string    `json:"city"`
	State               string    `json:"state"`
	PostalCode          string    `json:"postalCode"`
	DateOfBirth         string    `json:"dateOfBirth"`
	PaymentsCustomerID  string    `json:"dwollaCustomerId"`
	PaymentsCustomerURL string    `json:"dwollaCustomerUrl"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// HasPaymentsCustomer reports whether onboarding with the payments provider finished.
func (p *Profile) HasPaymentsCustomer() bool {
	return p.PaymentsCustomerID != ""
}

type CreateParams struct {
	IdentityID          string
	FirstName           string
	LastName            string
	Email               string
	Address1            string
	City                string
	State               string
	PostalCode          string
	DateOfBirth         string
	PaymentsCustomerID  string
	PaymentsCustomerURL string
}

func (p CreateParams) Validate() error {
	if p.IdentityID == "" {
		return ErrIdentityIDRequired
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmailRequired
	}
	return nil
}

// MinimalParams builds the profile synthesized for an identity that signed in
// without ever getting a profile row. The display name is split on single
// spaces: the first part is the first name ("User" when empty), the second
// part the last name. Repeated spaces yield empty parts.
func MinimalParams(identityID, displayName, email string) CreateParams {
	parts := strings.SplitN(displayName, " ", 3)
	first, last := parts[0], ""
	if len(parts) > 1 {
		last = parts[1]
	}
	if first == "" {
		first = "User"
	}

	return CreateParams{
		IdentityID: identityID,
		FirstName:  first,
		LastName:   last,
		Email:      email,
	}
}
