package user

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"horizon/internal/shared/apperr"
)

// Service is the user directory: identity id in, profile out.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetUserInfo returns the profile for an identity.
func (s *Service) GetUserInfo(ctx context.Context, identityID string) (*Profile, error) {
	const op = "user.GetUserInfo"

	if identityID == "" {
		return nil, apperr.Validation(op, ErrIdentityIDRequired)
	}

	profile, err := s.repo.GetByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, apperr.NotFound(op, err)
		}
		return nil, apperr.Persistence(op, err)
	}
	return profile, nil
}

// CreateProfile stores a full profile. Calling it twice for the same identity
// updates the existing row instead of creating a second one.
func (s *Service) CreateProfile(ctx context.Context, params CreateParams) (*Profile, error) {
	const op = "user.CreateProfile"

	if err := params.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}

	profile, err := s.repo.Upsert(ctx, params)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return profile, nil
}

// EnsureProfile makes profile lookups total for an authenticated identity:
// when no row exists a minimal one is synthesized from the display name.
// Concurrent callers for the same identity end up with the same single row.
func (s *Service) EnsureProfile(ctx context.Context, identityID, displayName, email string) (*Profile, error) {
	const op = "user.EnsureProfile"

	profile, err := s.repo.GetByIdentityID(ctx, identityID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, apperr.Persistence(op, err)
	}

	params := MinimalParams(identityID, displayName, email)
	if err := params.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}

	profile, created, err := s.repo.EnsureMinimal(ctx, params)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	if created {
		log.Warn().Str("identity_id", identityID).Msg("profile missing at sign-in, created minimal profile")
	}
	return profile, nil
}
