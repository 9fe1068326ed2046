package handlers

import (
	"net/http"
	"strconv"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
	"courier-companion/internal/logx"
)

// DeliveryHandler serves the Active and Completed delivery lists.
type DeliveryHandler struct {
	feed   deliveryFeed
	logger logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, feed deliveryFeed) *DeliveryHandler {
	return &DeliveryHandler{feed: feed, logger: logger}
}

// List handles GET /deliveries?status=active|completed[&refresh=true].
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	refresh := false
	if s := q.Get("refresh"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid refresh")
			return
		}
		refresh = v
	}

	var (
		reload func(*http.Request) error
		list   func() deliveryListResponse
	)
	switch q.Get("status") {
	case "", "active":
		reload = func(r *http.Request) error { return h.feed.RefreshActive(r.Context()) }
		list = func() deliveryListResponse { return listToResponse(h.feed.Active()) }
	case "completed":
		reload = func(r *http.Request) error { return h.feed.RefreshCompleted(r.Context()) }
		list = func() deliveryListResponse { return listToResponse(h.feed.Completed()) }
	default:
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid status")
		return
	}

	if refresh {
		if err := reload(r); err != nil {
			// the list is already marked stale
			h.logger.Warn("deliveries refresh failed",
				logx.String("req_id", reqID(r.Context())),
				logx.Err(err),
			)
		}
	}
	writeJSON(h.logger, w, r, http.StatusOK, list())
}

// SetStatus handles POST /deliveries/{id}/status.
func (h *DeliveryHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req setStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	to, ok := domain.ParseStatus(req.Status)
	if !ok {
		writeFailure(h.logger, w, r, apperr.Invalid("deliveries.set_status", "unknown status "+strconv.Quote(req.Status)))
		return
	}

	d, err := h.feed.SetStatus(r.Context(), id, to)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d))
}
