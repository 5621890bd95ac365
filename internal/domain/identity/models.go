package identity

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidInput       = errors.New("name, email and password are required")
)

// Identity is an authenticated principal. Profiles hang off its ID.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is a live sign-in. Token is what goes into the session cookie.
type Session struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identityId"`
	Email      string    `json:"email"`
	Token      string    `json:"-"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type CreateParams struct {
	Name     string
	Email    string
	Password string
}

func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" || NormalizeEmail(p.Email) == "" || p.Password == "" {
		return ErrInvalidInput
	}
	return nil
}

// CreateRecord is what the repository persists; the password is already hashed.
type CreateRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
