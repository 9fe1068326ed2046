package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
	"courier-companion/internal/location"
	"courier-companion/internal/logx"
)

type stubLocator struct {
	loc       location.Location
	updateErr error
	updated   []location.Coordinates
}

func (s *stubLocator) Locate(context.Context) location.Location { return s.loc }

func (s *stubLocator) Update(_ context.Context, c location.Coordinates) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, c)
	s.loc.Latitude, s.loc.Longitude = c.Latitude, c.Longitude
	return nil
}

type stubMarketplace struct {
	gotArea domain.Area
	err     error
}

func (s *stubMarketplace) Businesses(_ context.Context, a domain.Area) ([]domain.Business, error) {
	s.gotArea = a
	return []domain.Business{{ID: "b-1", Name: "Java House", IsOpen: true}}, s.err
}

func (s *stubMarketplace) Categories(_ context.Context, a domain.Area) ([]domain.Category, error) {
	s.gotArea = a
	return []domain.Category{{ID: "food", Name: "Food", Children: []domain.Category{{ID: "pizza", Name: "Pizza"}}}}, s.err
}

func (s *stubMarketplace) Featured(_ context.Context, a domain.Area) ([]domain.FeaturedItem, error) {
	s.gotArea = a
	return nil, s.err
}

type stubInventory struct{}

func (stubInventory) Items(_ context.Context, id string) ([]domain.InventoryItem, error) {
	return []domain.InventoryItem{{ID: "i-1", BusinessID: id, Name: "Pilau", Attributes: map[string]any{"price": 450.0}}}, nil
}

var nairobi = location.Location{City: "Nairobi", Country: "KE", Latitude: -1.2921, Longitude: 36.8219}

func TestMarketplaceHandler_Businesses_UsesResolvedArea(t *testing.T) {
	t.Parallel()

	market := &stubMarketplace{}
	h := NewMarketplaceHandler(logx.Nop(), market, stubInventory{}, &stubLocator{loc: nairobi})

	rr := httptest.NewRecorder()
	h.Businesses(rr, httptest.NewRequest(http.MethodGet, "/marketplace/businesses", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, nairobi.Area(), market.gotArea)

	var body marketplaceResponse[businessDTO]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	assert.True(t, body.Items[0].IsOpen)
	assert.Equal(t, "Nairobi", body.Area.City)
}

func TestMarketplaceHandler_QueryOverridesArea(t *testing.T) {
	t.Parallel()

	market := &stubMarketplace{}
	h := NewMarketplaceHandler(logx.Nop(), market, stubInventory{}, &stubLocator{loc: nairobi})

	rr := httptest.NewRecorder()
	h.Categories(rr, httptest.NewRequest(http.MethodGet, "/marketplace/categories?city=Accra&country=GH&latitude=5.6037&longitude=-0.187", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.Area{City: "Accra", Country: "GH", Latitude: 5.6037, Longitude: -0.187}, market.gotArea)

	var body marketplaceResponse[categoryDTO]
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Items, 1)
	require.Len(t, body.Items[0].Children, 1)
	assert.Equal(t, "pizza", body.Items[0].Children[0].ID)
}

func TestMarketplaceHandler_BadCoordinate(t *testing.T) {
	t.Parallel()

	h := NewMarketplaceHandler(logx.Nop(), &stubMarketplace{}, stubInventory{}, &stubLocator{loc: nairobi})
	rr := httptest.NewRecorder()
	h.Featured(rr, httptest.NewRequest(http.MethodGet, "/marketplace/featured?latitude=north", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMarketplaceHandler_UpstreamFailure(t *testing.T) {
	t.Parallel()

	market := &stubMarketplace{err: apperr.New(apperr.KindServer, "marketplace.featured", "")}
	h := NewMarketplaceHandler(logx.Nop(), market, stubInventory{}, &stubLocator{loc: nairobi})
	rr := httptest.NewRecorder()
	h.Featured(rr, httptest.NewRequest(http.MethodGet, "/marketplace/featured", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestMarketplaceHandler_ItemsFlattenAttributes(t *testing.T) {
	t.Parallel()

	h := NewMarketplaceHandler(logx.Nop(), &stubMarketplace{}, stubInventory{}, &stubLocator{})
	rr := httptest.NewRecorder()
	h.Items(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/marketplace/businesses/b-1/items", nil), "id", "b-1"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[{"id":"i-1","business_id":"b-1","name":"Pilau","price":450}]}`, rr.Body.String())
}

func TestLocationHandler(t *testing.T) {
	t.Parallel()

	loc := &stubLocator{loc: nairobi}
	h := NewLocationHandler(logx.Nop(), loc)

	rr := httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/location", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Update(rr, jsonRequest(http.MethodPut, "/location", `{"latitude":0,"longitude":10.5}`))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []location.Coordinates{{Latitude: 0, Longitude: 10.5}}, loc.updated)

	rr = httptest.NewRecorder()
	h.Update(rr, jsonRequest(http.MethodPut, "/location", `{"latitude":1}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	loc.updateErr = apperr.Invalid("location.update", "coordinates out of range")
	rr = httptest.NewRecorder()
	h.Update(rr, jsonRequest(http.MethodPut, "/location", `{"latitude":91,"longitude":0}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
