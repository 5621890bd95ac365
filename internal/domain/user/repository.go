package user

import "context"

// Repository defines the interface for profile data access.
// identity_id is unique, so both write paths are idempotent per identity.
type Repository interface {
	// Upsert inserts the profile or, on an identity_id conflict, overwrites it
	Upsert(ctx context.Context, params CreateParams) (*Profile, error)

	// EnsureMinimal inserts only if no row exists for the identity and returns
	// whichever row is stored afterwards
	EnsureMinimal(ctx context.Context, params CreateParams) (*Profile, bool, error)

	// GetByIdentityID returns ErrProfileNotFound when missing
	GetByIdentityID(ctx context.Context, identityID string) (*Profile, error)
}
