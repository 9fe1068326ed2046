package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"courier-companion/internal/domain"
	"courier-companion/internal/logx"
)

type inventory interface {
	Items(ctx context.Context, businessID string) ([]domain.InventoryItem, error)
}

// MarketplaceHandler serves marketplace reads scoped to the courier's area.
type MarketplaceHandler struct {
	market    marketplace
	inventory inventory
	locator   locator
	logger    logx.Logger
}

// NewMarketplaceHandler creates a new MarketplaceHandler.
func NewMarketplaceHandler(logger logx.Logger, market marketplace, inv inventory, loc locator) *MarketplaceHandler {
	return &MarketplaceHandler{market: market, inventory: inv, locator: loc, logger: logger}
}

// Businesses handles GET /marketplace/businesses.
func (h *MarketplaceHandler) Businesses(w http.ResponseWriter, r *http.Request) {
	area, ok := h.area(w, r)
	if !ok {
		return
	}
	list, err := h.market.Businesses(r.Context(), area)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, marketplaceResponse[businessDTO]{
		Area:  areaToResponse(area),
		Items: businessesToResponse(list),
	})
}

// Categories handles GET /marketplace/categories.
func (h *MarketplaceHandler) Categories(w http.ResponseWriter, r *http.Request) {
	area, ok := h.area(w, r)
	if !ok {
		return
	}
	list, err := h.market.Categories(r.Context(), area)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, marketplaceResponse[categoryDTO]{
		Area:  areaToResponse(area),
		Items: categoriesToResponse(list),
	})
}

// Featured handles GET /marketplace/featured.
func (h *MarketplaceHandler) Featured(w http.ResponseWriter, r *http.Request) {
	area, ok := h.area(w, r)
	if !ok {
		return
	}
	list, err := h.market.Featured(r.Context(), area)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, marketplaceResponse[featuredDTO]{
		Area:  areaToResponse(area),
		Items: featuredToResponse(list),
	})
}

// Items handles GET /marketplace/businesses/{id}/items.
func (h *MarketplaceHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	items, err := h.inventory.Items(r.Context(), id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		row := make(map[string]any, len(it.Attributes)+3)
		for k, v := range it.Attributes {
			row[k] = v
		}
		row["id"] = it.ID
		row["business_id"] = it.BusinessID
		row["name"] = it.Name
		out = append(out, row)
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"items": out})
}

// area starts from the resolved location; explicit query parameters win.
func (h *MarketplaceHandler) area(w http.ResponseWriter, r *http.Request) (domain.Area, bool) {
	area := h.locator.Locate(r.Context()).Area()
	q := r.URL.Query()

	if s := strings.TrimSpace(q.Get("city")); s != "" {
		area.City = s
	}
	if s := strings.TrimSpace(q.Get("country")); s != "" {
		area.Country = s
	}
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"latitude", &area.Latitude},
		{"longitude", &area.Longitude},
	} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid "+p.name)
			return domain.Area{}, false
		}
		*p.dst = v
	}
	return area, true
}
