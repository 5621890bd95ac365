package http

import (
	"net/http"
)

type UserHandler struct {
	profiles ProfileReader
}

func NewUserHandler(profiles ProfileReader) *UserHandler {
	return &UserHandler{profiles: profiles}
}

// HandleMe handles GET /api/users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
