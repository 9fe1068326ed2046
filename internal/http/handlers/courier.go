package handlers

import (
	"net/http"

	"courier-companion/internal/logx"
)

// CourierHandler serves the courier's own profile and earnings.
type CourierHandler struct {
	account courierAccount
	logger  logx.Logger
}

// NewCourierHandler creates a new CourierHandler.
func NewCourierHandler(logger logx.Logger, account courierAccount) *CourierHandler {
	return &CourierHandler{account: account, logger: logger}
}

// Profile handles GET /courier/profile.
func (h *CourierHandler) Profile(w http.ResponseWriter, r *http.Request) {
	c, err := h.account.Profile(r.Context())
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, courierToResponse(c))
}

// UpdateProfile handles PUT /courier/profile. Absent fields are left unchanged.
func (h *CourierHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Name == nil && req.Phone == nil && req.Vehicle == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	c, err := h.account.UpdateProfile(r.Context(), req.toModel())
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, courierToResponse(c))
}

// SetOnline handles PUT /courier/online with {"is_online":true}.
func (h *CourierHandler) SetOnline(w http.ResponseWriter, r *http.Request) {
	var req onlineRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Online == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "is_online is required")
		return
	}
	if err := h.account.SetOnline(r.Context(), *req.Online); err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]bool{"is_online": *req.Online})
}

// Earnings handles GET /courier/earnings.
func (h *CourierHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	e, err := h.account.Earnings(r.Context())
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, earningsToResponse(e))
}
