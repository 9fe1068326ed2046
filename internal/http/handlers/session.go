package handlers

import (
	"errors"
	"net/http"
	"strings"

	"courier-companion/internal/logx"
	"courier-companion/internal/session"
)

// SessionHandler receives the credential issued by the auth service and
// ties the realtime channel to it.
type SessionHandler struct {
	store   credentialStore
	channel channel
	mode    string
	logger  logx.Logger
}

// NewSessionHandler creates a new SessionHandler. mode is the realtime
// subscription mode used after sign-in.
func NewSessionHandler(logger logx.Logger, store credentialStore, ch channel, mode string) *SessionHandler {
	return &SessionHandler{store: store, channel: ch, mode: mode, logger: logger}
}

// Get handles GET /session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.store.Load(r.Context())
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, identityToResponse(id, h.channel.Connected()))
	case errors.Is(err, session.ErrNoCredential):
		writeError(h.logger, w, r, http.StatusUnauthorized, "not signed in")
	default:
		writeFailure(h.logger, w, r, err)
	}
}

// Put handles PUT /session with {"token":"..."}. The realtime channel is
// (re)connected with the new credential; a failed connect is logged and
// retried by the channel itself.
func (h *SessionHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "token is required")
		return
	}

	id, err := h.store.Save(r.Context(), req.Token)
	switch {
	case errors.Is(err, session.ErrInvalidToken):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid token")
		return
	case err != nil:
		writeFailure(h.logger, w, r, err)
		return
	}
	if err := h.channel.Connect(r.Context(), h.mode); err != nil {
		h.logger.Warn("realtime connect after sign-in failed",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
	writeJSON(h.logger, w, r, http.StatusOK, identityToResponse(id, h.channel.Connected()))
}

// Delete handles DELETE /session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.channel.Disconnect()
	if err := h.store.Clear(r.Context()); err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
