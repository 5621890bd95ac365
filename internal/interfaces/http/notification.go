package http

import (
	"context"
	"net/http"

	"horizon/internal/domain/notification"
)

type DeviceRegistrar interface {
	RegisterDevice(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error)
}

type NotificationHandler struct {
	profiles ProfileReader
	devices  DeviceRegistrar
}

func NewNotificationHandler(profiles ProfileReader, devices DeviceRegistrar) *NotificationHandler {
	return &NotificationHandler{profiles: profiles, devices: devices}
}

type RegisterDeviceRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}

// HandleRegisterDevice handles POST /api/notifications/devices
func (h *NotificationHandler) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(w, r, h.profiles)
	if !ok {
		return
	}

	var req RegisterDeviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	device, err := h.devices.RegisterDevice(r.Context(), notification.CreateDeviceTokenParams{
		UserID:     profile.ID,
		Token:      req.Token,
		DeviceType: req.DeviceType,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, device)
}
