package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"horizon/internal/domain/identity"
	"horizon/internal/domain/payments"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperr"
)

// Service runs signup and signin across the identity gateway, the payments
// provider and the user directory.
type Service struct {
	identities Identities
	customers  Customers
	profiles   Profiles
}

func NewService(identities Identities, customers Customers, profiles Profiles) *Service {
	return &Service{identities: identities, customers: customers, profiles: profiles}
}

// SignUp creates the identity, the payments customer and the profile, then
// opens a session. When a step after the identity fails the earlier steps
// are compensated: the customer is deactivated and the identity deleted.
func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*Result, error) {
	const op = "onboarding.SignUp"

	if err := params.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}

	stage := StageNew
	logger := log.With().Str("email", params.Email).Logger()

	ident, err := s.identities.Register(ctx, identity.CreateParams{
		Name:     params.DisplayName(),
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		logger.Error().Err(err).Str("stage", string(stage)).Msg("sign-up failed")
		return nil, apperr.Wrap(apperr.KindPersistenceFailed, op, err)
	}
	stage = StageAuthCreated
	logger = logger.With().Str("identity_id", ident.ID).Logger()

	customerURL, err := s.customers.CreateCustomer(ctx, payments.NewCustomer{
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		Email:          ident.Email,
		Address1:       params.Address1,
		City:           params.City,
		State:          params.State,
		PostalCode:     params.PostalCode,
		DateOfBirth:    params.DateOfBirth,
		SSN:            params.SSNLastFour(),
		IdempotencyKey: ident.ID,
	})
	if err != nil {
		return nil, s.abort(ctx, logger, op, stage, ident.ID, "", err)
	}
	stage = StagePaymentsCustomerCreated

	profile, err := s.profiles.CreateProfile(ctx, user.CreateParams{
		IdentityID:          ident.ID,
		FirstName:           params.FirstName,
		LastName:            params.LastName,
		Email:               ident.Email,
		Address1:            params.Address1,
		City:                params.City,
		State:               params.State,
		PostalCode:          params.PostalCode,
		DateOfBirth:         params.DateOfBirth,
		PaymentsCustomerID:  payments.ExtractCustomerID(customerURL),
		PaymentsCustomerURL: customerURL,
	})
	if err != nil {
		return nil, s.abort(ctx, logger, op, stage, ident.ID, customerURL, err)
	}
	stage = StageProfilePersisted

	// Everything is stored at this point; a missing session only means the
	// user has to sign in again.
	session, err := s.identities.SignIn(ctx, params.Email, params.Password)
	if err != nil {
		logger.Error().Err(err).Str("stage", string(stage)).Msg("account created but session not established")
		return nil, apperr.Wrap(apperr.KindPersistenceFailed, op, err)
	}

	logger.Info().Str("stage", string(StageSessionEstablished)).Msg("user signed up")
	return &Result{Session: session, Profile: profile}, nil
}

// abort undoes what the signup created so far and returns cause joined with
// any compensation failure.
func (s *Service) abort(ctx context.Context, logger zerolog.Logger, op string, stage Stage, identityID, customerURL string, cause error) error {
	logger.Error().Err(cause).Str("stage", string(stage)).Msg("sign-up failed, compensating")

	errs := []error{cause}
	if customerURL != "" {
		if err := s.customers.DeactivateCustomer(ctx, customerURL); err != nil {
			logger.Error().Err(err).Str("customer_url", customerURL).Msg("failed to deactivate payments customer")
			errs = append(errs, fmt.Errorf("failed to deactivate customer: %w", err))
		}
	}
	if err := s.identities.Delete(ctx, identityID); err != nil {
		logger.Error().Err(err).Msg("failed to delete identity")
		errs = append(errs, fmt.Errorf("failed to delete identity: %w", err))
	}

	return apperr.New(apperr.KindOf(cause), op, fmt.Errorf("%w at %s: %w", ErrSignUpFailed, stage, errors.Join(errs...)))
}

// SignIn opens a session and returns the user's profile, creating a minimal
// one if the identity never got one.
func (s *Service) SignIn(ctx context.Context, params SignInParams) (*Result, error) {
	const op = "onboarding.SignIn"

	if err := params.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}

	session, err := s.identities.SignIn(ctx, params.Email, params.Password)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileFor(ctx, session.IdentityID)
	if err != nil {
		if logoutErr := s.identities.Logout(ctx, session.Token); logoutErr != nil {
			log.Warn().Err(logoutErr).Str("identity_id", session.IdentityID).Msg("failed to revoke session")
		}
		return nil, err
	}

	return &Result{Session: session, Profile: profile}, nil
}

func (s *Service) profileFor(ctx context.Context, identityID string) (*user.Profile, error) {
	ident, err := s.identities.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return s.profiles.EnsureProfile(ctx, ident.ID, ident.Name, ident.Email)
}

// Logout revokes the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.identities.Logout(ctx, token)
}

// ReconcileProfiles creates the minimal profile for every identity that has
// none and returns how many were repaired.
func (s *Service) ReconcileProfiles(ctx context.Context) (int, error) {
	idents, err := s.identities.ListWithoutProfile(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, ident := range idents {
		if _, err := s.profiles.EnsureProfile(ctx, ident.ID, ident.Name, ident.Email); err != nil {
			log.Error().Err(err).Str("identity_id", ident.ID).Msg("failed to reconcile profile")
			continue
		}
		repaired++
	}

	log.Info().Int("repaired", repaired).Int("total", len(idents)).Msg("profile reconciliation finished")
	return repaired, nil
}
