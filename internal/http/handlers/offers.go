package handlers

import (
	"net/http"

	"courier-companion/internal/logx"
)

// OfferHandler serves the Available offers screen.
type OfferHandler struct {
	board  offerBoard
	logger logx.Logger
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(logger logx.Logger, board offerBoard) *OfferHandler {
	return &OfferHandler{board: board, logger: logger}
}

// List handles GET /offers.
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, snapshotToResponse(h.board.List()))
}

// Refresh handles POST /offers/refresh. A failed refresh still answers with
// the previous list marked stale.
func (h *OfferHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.board.Refresh(r.Context()); err != nil {
		h.logger.Warn("offers refresh failed",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
	writeJSON(h.logger, w, r, http.StatusOK, snapshotToResponse(h.board.List()))
}

// Accept handles POST /offers/{id}/accept.
func (h *OfferHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.board.Accept(r.Context(), id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d))
}
