package http

import (
	"context"
	"net/http"

	"horizon/internal/domain/banklink"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/user"
)

// Linker runs the bank linking flow.
type Linker interface {
	CreateLinkToken(ctx context.Context, profile *user.Profile) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string, profile *user.Profile) (*linking.ExchangeResult, error)
}

// BankLinkReader is the read side of the bank directory.
type BankLinkReader interface {
	ListBankLinks(ctx context.Context, userID string) ([]*banklink.BankLink, error)
	GetOwnedBankLink(ctx context.Context, userID, id string) (*banklink.BankLink, error)
}

type BankHandler struct {
	profiles ProfileReader
	linker   Linker
	links    BankLinkReader
}

func NewBankHandler(profiles ProfileReader, linker Linker, links BankLinkReader) *BankHandler {
	return &BankHandler{profiles: profiles, linker: linker, links: links}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type ExchangeRequest struct {
	PublicToken string `json:"publicToken"`
}

// HandleLinkToken handles POST /api/banks/link-token
func (h *BankHandler) HandleLinkToken(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	token, err := h.linker.CreateLinkToken(r.Context(), profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LinkTokenResponse{LinkToken: token})
}

// HandleExchange handles POST /api/banks/exchange
func (h *BankHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	var req ExchangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.linker.ExchangePublicToken(r.Context(), req.PublicToken, profile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleList handles GET /api/banks
func (h *BankHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	links, err := h.links.ListBankLinks(r.Context(), profile.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if links == nil {
		links = []*banklink.BankLink{}
	}
	writeJSON(w, http.StatusOK, links)
}

// HandleGet handles GET /api/banks/{id}
func (h *BankHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	link, err := h.links.GetOwnedBankLink(r.Context(), profile.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}
