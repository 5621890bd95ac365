package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"horizon/internal/domain/onboarding"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperr"
	"horizon/internal/shared/middleware"
)

const maxBodySize = 1 << 20 // 1 MiB

// ProfileReader resolves the signed-in identity to its profile.
type ProfileReader interface {
	GetUserInfo(ctx context.Context, identityID string) (*user.Profile, error)
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	// PasswordStrength is only set for a rejected signup form.
	PasswordStrength string `json:"passwordStrength,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps err's kind to a status code. Server-side failures get a
// generic message; the cause only goes to the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()

	resp := ErrorResponse{Error: err.Error(), Kind: kind.String()}

	var verr *onboarding.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "invalid form"
		resp.Fields = verr.Fields
		resp.PasswordStrength = string(verr.PasswordStrength)
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Str("kind", kind.String()).Msg("request failed")
		resp.Error = http.StatusText(status)
	}

	writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("http.decode", fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Kind: apperr.KindUnauthorized.String()})
}

// currentProfile loads the profile of the session's identity. It writes the
// error response itself and returns false when the request cannot proceed.
func currentProfile(w http.ResponseWriter, r *http.Request, profiles ProfileReader) (*user.Profile, bool) {
	identityID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return nil, false
	}

	profile, err := profiles.GetUserInfo(r.Context(), identityID)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return profile, true
}
