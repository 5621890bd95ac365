package http

import (
	"context"
	"net/http"

	"horizon/internal/domain/dashboard"
	"horizon/internal/domain/user"
)

// Dashboard builds the account views.
type Dashboard interface {
	Accounts(ctx context.Context, userID string) (*dashboard.Summary, error)
	Account(ctx context.Context, userID, bankLinkID string) (*dashboard.AccountDetail, error)
	Home(ctx context.Context, profile *user.Profile, selectedID string) (*dashboard.Home, error)
}

type AccountHandler struct {
	profiles  ProfileReader
	dashboard Dashboard
}

func NewAccountHandler(profiles ProfileReader, dashboard Dashboard) *AccountHandler {
	return &AccountHandler{profiles: profiles, dashboard: dashboard}
}

// HandleList handles GET /api/accounts
func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	summary, err := h.dashboard.Accounts(r.Context(), profile.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleGet handles GET /api/accounts/{id}, where id is a bank link id.
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	detail, err := h.dashboard.Account(r.Context(), profile.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleHome handles GET /api/home?id=<bank link id>
func (h *AccountHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	home, err := h.dashboard.Home(r.Context(), profile, r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}
