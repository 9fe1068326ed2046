package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"courier-companion/internal/logx"
)

// ConfigHandler exposes the country and business configuration tables.
type ConfigHandler struct {
	resolver  resolver
	selection selection
	logger    logx.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(logger logx.Logger, res resolver, sel selection) *ConfigHandler {
	return &ConfigHandler{resolver: res, selection: sel, logger: logger}
}

// Countries handles GET /config/countries.
func (h *ConfigHandler) Countries(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, map[string][]string{"countries": h.resolver.Countries()})
}

// Country handles GET /config/countries/{code}. Unknown codes resolve to the default entry.
func (h *ConfigHandler) Country(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.resolver.Resolve(chi.URLParam(r, "code")))
}

// Business handles GET /config/business/{code}.
func (h *ConfigHandler) Business(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, r, http.StatusOK, h.resolver.ResolveBusiness(chi.URLParam(r, "code")))
}

// Current handles GET /config/country.
func (h *ConfigHandler) Current(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.selection.Current(r.Context())
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, cfg)
}

// SelectCountry handles PUT /config/country with {"code":"KE"}.
func (h *ConfigHandler) SelectCountry(w http.ResponseWriter, r *http.Request) {
	var req selectCountryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "code is required")
		return
	}

	cfg, err := h.selection.Select(r.Context(), code)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, cfg)
}
