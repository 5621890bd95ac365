package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"horizon/internal/shared/apperr"
	"horizon/internal/shared/auth"
)

// Gateway is the identity/session boundary: it owns credentials and sessions
// and hands out identities to the rest of the app.
type Gateway struct {
	repo     Repository
	sessions SessionStore
	tokens   *auth.SessionTokens
}

func NewGateway(repo Repository, sessions SessionStore, tokens *auth.SessionTokens) *Gateway {
	return &Gateway{repo: repo, sessions: sessions, tokens: tokens}
}

// Register creates a new identity with a bcrypt-hashed password.
func (g *Gateway) Register(ctx context.Context, params CreateParams) (*Identity, error) {
	const op = "identity.Register"

	if err := params.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	ident, err := g.repo.Create(ctx, CreateRecord{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(params.Name),
		Email:        NormalizeEmail(params.Email),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperr.New(apperr.KindConflict, op, err)
		}
		return nil, apperr.Persistence(op, err)
	}

	return ident, nil
}

// SignIn verifies credentials and opens a session.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	const op = "identity.SignIn"

	ident, err := g.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, apperr.Unauthorized(op, ErrInvalidCredentials)
		}
		return nil, apperr.Persistence(op, err)
	}

	if err := auth.VerifyPassword(ident.PasswordHash, password); err != nil {
		return nil, apperr.Unauthorized(op, ErrInvalidCredentials)
	}

	return g.openSession(ctx, ident)
}

func (g *Gateway) openSession(ctx context.Context, ident *Identity) (*Session, error) {
	const op = "identity.openSession"

	token, sessionID, err := g.tokens.Issue(ident.ID, ident.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	if err := g.sessions.Save(ctx, sessionID, ident.ID, g.tokens.TTL()); err != nil {
		return nil, apperr.Persistence(op, fmt.Errorf("failed to store session: %w", err))
	}

	return &Session{
		ID:         sessionID,
		IdentityID: ident.ID,
		Email:      ident.Email,
		Token:      token,
		ExpiresAt:  time.Now().Add(g.tokens.TTL()),
	}, nil
}

// Authenticate resolves a session token to a live session. Tokens whose
// session was revoked fail even when the signature is still valid.
func (g *Gateway) Authenticate(ctx context.Context, token string) (*Session, error) {
	const op = "identity.Authenticate"

	claims, err := g.tokens.Validate(token)
	if err != nil {
		return nil, apperr.Unauthorized(op, err)
	}

	identityID, err := g.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperr.Unauthorized(op, err)
		}
		return nil, apperr.Persistence(op, err)
	}
	if identityID != claims.IdentityID() {
		return nil, apperr.Unauthorized(op, ErrSessionNotFound)
	}

	return &Session{
		ID:         claims.SessionID(),
		IdentityID: identityID,
		Email:      claims.Email,
		Token:      token,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// LoggedInUser returns the identity behind a session token.
func (g *Gateway) LoggedInUser(ctx context.Context, token string) (*Identity, error) {
	session, err := g.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return g.Get(ctx, session.IdentityID)
}

func (g *Gateway) Get(ctx context.Context, identityID string) (*Identity, error) {
	const op = "identity.Get"

	ident, err := g.repo.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, apperr.NotFound(op, err)
		}
		return nil, apperr.Persistence(op, err)
	}
	return ident, nil
}

// Logout revokes the session behind the token. Logging out an already
// revoked session is not an error.
func (g *Gateway) Logout(ctx context.Context, token string) error {
	const op = "identity.Logout"

	claims, err := g.tokens.Validate(token)
	if err != nil {
		return apperr.Unauthorized(op, err)
	}

	if err := g.sessions.Delete(ctx, claims.SessionID()); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return apperr.Persistence(op, err)
	}

	log.Info().Str("identity_id", claims.IdentityID()).Msg("session revoked")
	return nil
}

// Delete removes an identity. Used to compensate a failed signup.
func (g *Gateway) Delete(ctx context.Context, identityID string) error {
	if err := g.repo.Delete(ctx, identityID); err != nil {
		return apperr.Persistence("identity.Delete", err)
	}
	return nil
}

// ListWithoutProfile feeds the profile reconciliation command.
func (g *Gateway) ListWithoutProfile(ctx context.Context) ([]*Identity, error) {
	idents, err := g.repo.ListWithoutProfile(ctx)
	if err != nil {
		return nil, apperr.Persistence("identity.ListWithoutProfile", err)
	}
	return idents, nil
}
