package handlers

import (
	"net/http"

	"courier-companion/internal/location"
	"courier-companion/internal/logx"
)

// LocationHandler serves the courier's resolved location.
type LocationHandler struct {
	locator locator
	logger  logx.Logger
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(logger logx.Logger, loc locator) *LocationHandler {
	return &LocationHandler{locator: loc, logger: logger}
}

// Get handles GET /location. It never fails: the fallback location is
// returned when nothing better is known.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.locator.Locate(r.Context()))
}

// Update handles PUT /location with the device coordinates.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req coordinatesRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	c := location.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := h.locator.Update(r.Context(), c); err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, h.locator.Locate(r.Context()))
}
