package handlers

import (
	"context"
	"net/http"
	"unicode/utf8"

	"courier-companion/internal/apperr"
	"courier-companion/internal/logx"
	"courier-companion/internal/service/handoff"
)

// PinHandler drives the PIN entry of the handoff screens.
type PinHandler struct {
	handoffs challenges
	logger   logx.Logger
}

// NewPinHandler creates a new PinHandler.
func NewPinHandler(logger logx.Logger, handoffs challenges) *PinHandler {
	return &PinHandler{handoffs: handoffs, logger: logger}
}

type pinResponse struct {
	State  handoff.PinState `json:"state"`
	Result *handoff.Result  `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// State handles GET /deliveries/{id}/pin.
func (h *PinHandler) State(w http.ResponseWriter, r *http.Request) {
	p, ok := h.challenge(w, r)
	if !ok {
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, pinResponse{State: p.State()})
}

// Type handles POST /deliveries/{id}/pin/type with {"digit":"7"}.
func (h *PinHandler) Type(w http.ResponseWriter, r *http.Request) {
	p, ok := h.challenge(w, r)
	if !ok {
		return
	}
	var req pinTypeRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if utf8.RuneCountInString(req.Digit) != 1 {
		writeFailure(h.logger, w, r, apperr.Invalid("handoff.type", "exactly one character expected"))
		return
	}
	d, _ := utf8.DecodeRuneInString(req.Digit)

	h.respond(w, r, p, func(ctx context.Context) (*handoff.Result, error) {
		return p.Type(ctx, d)
	})
}

// Backspace handles POST /deliveries/{id}/pin/backspace.
func (h *PinHandler) Backspace(w http.ResponseWriter, r *http.Request) {
	p, ok := h.challenge(w, r)
	if !ok {
		return
	}
	h.respond(w, r, p, func(context.Context) (*handoff.Result, error) {
		return nil, p.Backspace()
	})
}

// Submit handles POST /deliveries/{id}/pin/submit.
func (h *PinHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.challenge(w, r)
	if !ok {
		return
	}
	h.respond(w, r, p, p.Submit)
}

func (h *PinHandler) challenge(w http.ResponseWriter, r *http.Request) (*handoff.PinChallenge, bool) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	p, err := h.handoffs.Challenge(id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return nil, false
	}
	return p, true
}

// respond always carries the challenge state so the renderer can redraw the
// cells after a rejected code.
func (h *PinHandler) respond(
	w http.ResponseWriter,
	r *http.Request,
	p *handoff.PinChallenge,
	action func(context.Context) (*handoff.Result, error),
) {
	res, err := action(r.Context())
	resp := pinResponse{State: p.State(), Result: res}
	if err == nil {
		writeJSON(h.logger, w, r, http.StatusOK, resp)
		return
	}

	status := errorStatus(err)
	h.logger.Warn("pin action failed",
		logx.String("req_id", reqID(r.Context())),
		logx.String("delivery_id", resp.State.DeliveryID),
		logx.Int("status", status),
		logx.Err(err),
	)
	resp.Error = publicMessage(err, status)
	writeJSON(h.logger, w, r, status, resp)
}
