package identity

import (
	"context"
	"time"
)

// Repository defines the interface for identity data access
type Repository interface {
	// Create returns ErrEmailTaken when the email is already registered
	Create(ctx context.Context, record CreateRecord) (*Identity, error)

	// GetByID returns ErrIdentityNotFound when missing
	GetByID(ctx context.Context, id string) (*Identity, error)

	GetByEmail(ctx context.Context, email string) (*Identity, error)

	Delete(ctx context.Context, id string) error

	// ListWithoutProfile returns identities that have no users row yet
	ListWithoutProfile(ctx context.Context) ([]*Identity, error)
}

// SessionStore keeps the set of live sessions so logout can revoke a token
// before it expires.
type SessionStore interface {
	Save(ctx context.Context, sessionID, identityID string, ttl time.Duration) error

	// Get returns the identity id bound to the session or ErrSessionNotFound
	Get(ctx context.Context, sessionID string) (string, error)

	Delete(ctx context.Context, sessionID string) error
}
