package http

import (
	"context"
	"net/http"

	"horizon/internal/domain/transfer"
)

// TransferSender pays another user.
type TransferSender interface {
	Send(ctx context.Context, params transfer.SendParams) (*transfer.Record, error)
}

type TransferHandler struct {
	profiles  ProfileReader
	transfers TransferSender
}

func NewTransferHandler(profiles ProfileReader, transfers TransferSender) *TransferHandler {
	return &TransferHandler{profiles: profiles, transfers: transfers}
}

type SendTransferRequest struct {
	SourceBankLinkID     string `json:"sourceBankId"`
	RecipientShareableID string `json:"shareableId"`
	Amount               string `json:"amount"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
}

// HandleSend handles POST /api/transfers. An Idempotency-Key header is
// passed through to the payments provider.
func (h *TransferHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	var req SendTransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	record, err := h.transfers.Send(r.Context(), transfer.SendParams{
		SenderID:             profile.ID,
		SourceBankLinkID:     req.SourceBankLinkID,
		RecipientShareableID: req.RecipientShareableID,
		Amount:               req.Amount,
		Name:                 req.Name,
		Email:                req.Email,
		IdempotencyKey:       r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}
