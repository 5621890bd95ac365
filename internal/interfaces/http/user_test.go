package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/internal/domain/user"
	"horizon/internal/shared/apperr"
)

func TestUserHandleMe(t *testing.T) {
	tests := []struct {
		name           string
		profiles       *MockProfiles
		authed         bool
		expectedStatus int
	}{
		{
			name:           "Success",
			profiles:       &MockProfiles{},
			authed:         true,
			expectedStatus: http.StatusOK,
		},
		{
			name: "Profile Not Found",
			profiles: &MockProfiles{
				GetUserInfoFunc: func(ctx context.Context, identityID string) (*user.Profile, error) {
					return nil, apperr.NotFound("user.GetUserInfo", user.ErrProfileNotFound)
				},
			},
			authed:         true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Database Down",
			profiles: &MockProfiles{
				GetUserInfoFunc: func(ctx context.Context, identityID string) (*user.Profile, error) {
					return nil, apperr.Persistence("user.GetUserInfo", errors.New("connection refused"))
				},
			},
			authed:         true,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Unauthorized",
			profiles:       &MockProfiles{},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewUserHandler(tt.profiles)

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.authed {
				req = authedRequest(http.MethodGet, "/api/users/me", "")
			}
			rr := httptest.NewRecorder()
			handler.HandleMe(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				var profile user.Profile
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&profile))
				assert.Equal(t, "identity-1", profile.IdentityID)
				assert.Equal(t, "cus-1", profile.PaymentsCustomerID)
			}
		})
	}
}
