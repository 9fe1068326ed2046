package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
)

// MarketplaceAPI wraps the read-only marketplace endpoints.
type MarketplaceAPI struct {
	do Doer
}

// NewMarketplaceAPI creates a MarketplaceAPI.
func NewMarketplaceAPI(do Doer) *MarketplaceAPI {
	return &MarketplaceAPI{do: do}
}

func areaQuery(a domain.Area) url.Values {
	q := url.Values{}
	if a.City != "" {
		q.Set("city", a.City)
	}
	if a.Country != "" {
		q.Set("country", a.Country)
	}
	q.Set("latitude", strconv.FormatFloat(a.Latitude, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(a.Longitude, 'f', 6, 64))
	return q
}

func (m *MarketplaceAPI) get(ctx context.Context, op, path string, a domain.Area, key string, out any) error {
	body, err := m.do.Do(ctx, Request{Op: op, Method: http.MethodGet, Path: path, Query: areaQuery(a)})
	if err != nil {
		return err
	}
	return decode(op, listPayload(body, key, "data", "results"), out)
}

// Businesses lists businesses near a.
func (m *MarketplaceAPI) Businesses(ctx context.Context, a domain.Area) ([]domain.Business, error) {
	var dtos []businessDTO
	if err := m.get(ctx, "marketplace.businesses", "/marketplace/businesses", a, "businesses", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Business, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, domain.Business(d))
	}
	return out, nil
}

// Categories returns the category hierarchy.
func (m *MarketplaceAPI) Categories(ctx context.Context, a domain.Area) ([]domain.Category, error) {
	var dtos []categoryDTO
	if err := m.get(ctx, "marketplace.categories", "/marketplace/categories", a, "categories", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Featured lists promoted items near a.
func (m *MarketplaceAPI) Featured(ctx context.Context, a domain.Area) ([]domain.FeaturedItem, error) {
	var dtos []featuredDTO
	if err := m.get(ctx, "marketplace.featured", "/marketplace/featured", a, "items", &dtos); err != nil {
		return nil, err
	}
	out := make([]domain.FeaturedItem, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, domain.FeaturedItem(d))
	}
	return out, nil
}

// InventoryAPI wraps the inventory endpoints.
type InventoryAPI struct {
	do Doer
}

// NewInventoryAPI creates an InventoryAPI.
func NewInventoryAPI(do Doer) *InventoryAPI {
	return &InventoryAPI{do: do}
}

// Items lists the items of a business. Keys other than id and name are kept as attributes.
func (i *InventoryAPI) Items(ctx context.Context, businessID string) ([]domain.InventoryItem, error) {
	const op = "inventory.items"
	body, err := i.do.Do(ctx, Request{
		Op:     op,
		Method: http.MethodGet,
		Path:   "/inventory/businesses/" + url.PathEscape(businessID) + "/items",
	})
	if err != nil {
		return nil, err
	}
	var raw []map[string]json.RawMessage
	if err := decode(op, listPayload(body, "items", "data"), &raw); err != nil {
		return nil, err
	}
	out := make([]domain.InventoryItem, 0, len(raw))
	for _, r := range raw {
		item := domain.InventoryItem{BusinessID: businessID, Attributes: map[string]any{}}
		for k, v := range r {
			switch k {
			case "id":
				item.ID = scalarString(v)
			case "name":
				item.Name = scalarString(v)
			case "business_id":
			default:
				var val any
				if err := json.Unmarshal(v, &val); err != nil {
					return nil, &apperr.Error{Kind: apperr.KindServer, Op: op, Message: "malformed item", Err: err}
				}
				item.Attributes[k] = val
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// scalarString accepts ids sent as strings or numbers.
func scalarString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

// GeoAPI wraps reverse geocoding.
type GeoAPI struct {
	do Doer
}

// NewGeoAPI creates a GeoAPI.
func NewGeoAPI(do Doer) *GeoAPI {
	return &GeoAPI{do: do}
}

// Reverse resolves coordinates into a place.
func (g *GeoAPI) Reverse(ctx context.Context, lat, lng float64) (domain.Place, error) {
	const op = "geo.reverse"
	body, err := g.do.Do(ctx, Request{
		Op:     op,
		Method: http.MethodGet,
		Path:   "/geo/reverse",
		Query: url.Values{
			"lat": {strconv.FormatFloat(lat, 'f', 6, 64)},
			"lng": {strconv.FormatFloat(lng, 'f', 6, 64)},
		},
	})
	if err != nil {
		return domain.Place{}, err
	}
	var dto placeDTO
	if err := decode(op, body, &dto); err != nil {
		return domain.Place{}, err
	}
	return domain.Place(dto), nil
}
