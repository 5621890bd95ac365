package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/asaskevich/govalidator"

	"horizon/internal/domain/identity"
	"horizon/internal/domain/payments"
	"horizon/internal/domain/user"
	"horizon/internal/shared/auth"
)

const dateLayout = "2006-01-02"

// Stage is how far a signup got before it stopped.
type Stage string

const (
	StageNew                     Stage = "NEW"
	StageAuthCreated             Stage = "AUTH_CREATED"
	StagePaymentsCustomerCreated Stage = "PAYMENTS_CUSTOMER_CREATED"
	StageProfilePersisted        Stage = "PROFILE_PERSISTED"
	StageSessionEstablished      Stage = "SESSION_ESTABLISHED"
)

var ErrSignUpFailed = errors.New("sign-up failed")

// SignUpParams is the signup form. SSN is forwarded to the payments
// provider and never stored.
type SignUpParams struct {
	FirstName   string `json:"firstName" valid:"required,stringlength(2|50)"`
	LastName    string `json:"lastName" valid:"required,stringlength(2|50)"`
	Address1    string `json:"address1" valid:"required,stringlength(4|100)"`
	City        string `json:"city" valid:"required,stringlength(2|50)"`
	State       string `json:"state" valid:"required,stringlength(2|2)"`
	PostalCode  string `json:"postalCode" valid:"required,stringlength(3|6)"`
	DateOfBirth string `json:"dateOfBirth" valid:"required"`
	SSN         string `json:"ssn" valid:"required,numeric,stringlength(4|9)"`
	Email       string `json:"email" valid:"required,email"`
	Password    string `json:"password" valid:"required,stringlength(8|72)"`
}

// ValidationError lists the offending fields and how strong the submitted
// password scored, so the form can show both.
type ValidationError struct {
	Fields           map[string]string `json:"fields"`
	PasswordStrength auth.Strength     `json:"passwordStrength"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

func (p SignUpParams) Validate() error {
	fields := make(map[string]string)

	if _, err := govalidator.ValidateStruct(p); err != nil {
		for name, msg := range govalidator.ErrorsByField(err) {
			fields[name] = msg
		}
	}
	if p.DateOfBirth != "" && !govalidator.IsTime(p.DateOfBirth, dateLayout) {
		fields["dateOfBirth"] = "must be a date in YYYY-MM-DD format"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields, PasswordStrength: auth.PasswordStrength(p.Password)}
}

// DisplayName is the identity name the signup registers.
func (p SignUpParams) DisplayName() string {
	return strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)
}

// SSNLastFour returns the digits the payments provider verifies against.
func (p SignUpParams) SSNLastFour() string {
	if len(p.SSN) <= 4 {
		return p.SSN
	}
	return p.SSN[len(p.SSN)-4:]
}

type SignInParams struct {
	Email    string `json:"email" valid:"required,email"`
	Password string `json:"password" valid:"required"`
}

func (p SignInParams) Validate() error {
	if _, err := govalidator.ValidateStruct(p); err != nil {
		return &ValidationError{Fields: govalidator.ErrorsByField(err)}
	}
	return nil
}

// Result is a signed-in user: the session to set as a cookie and the profile.
type Result struct {
	Session *identity.Session `json:"session"`
	Profile *user.Profile     `json:"user"`
}

// Identities is the identity/session gateway.
type Identities interface {
	Register(ctx context.Context, params identity.CreateParams) (*identity.Identity, error)
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	Get(ctx context.Context, identityID string) (*identity.Identity, error)
	Logout(ctx context.Context, token string) error
	Delete(ctx context.Context, identityID string) error
	ListWithoutProfile(ctx context.Context) ([]*identity.Identity, error)
}

// Customers is the payments provider's customer API.
type Customers interface {
	CreateCustomer(ctx context.Context, customer payments.NewCustomer) (string, error)
	DeactivateCustomer(ctx context.Context, customerURL string) error
}

// Profiles is the user directory.
type Profiles interface {
	CreateProfile(ctx context.Context, params user.CreateParams) (*user.Profile, error)
	EnsureProfile(ctx context.Context, identityID, displayName, email string) (*user.Profile, error)
}
