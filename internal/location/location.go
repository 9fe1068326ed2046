// Package location resolves where the courier is, with a short-lived cache
// and a fixed fallback when positioning or geocoding fails.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
	"courier-companion/internal/kv"
	"courier-companion/internal/logx"
)

// Freshness is how long a resolved location is served from cache.
const Freshness = 5 * time.Minute

// ErrNoPosition is returned by a Provider that has nothing to report.
var ErrNoPosition = errors.New("no device position")

// Coordinates is a raw device position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate ranges.
func (c Coordinates) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return apperr.Invalid("location.update", "coordinates out of range")
	}
	return nil
}

// Location is a resolved position.
type Location struct {
	City       string    `json:"city"`
	Country    string    `json:"country"`
	Address    string    `json:"address"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Fallback   bool      `json:"fallback"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Area is the marketplace query scope for l.
func (l Location) Area() domain.Area {
	return domain.Area{City: l.City, Country: l.Country, Latitude: l.Latitude, Longitude: l.Longitude}
}

// Provider reports the device position.
type Provider interface {
	Position(ctx context.Context) (Coordinates, error)
}

// Geocoder turns coordinates into a place.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (domain.Place, error)
}

// Pushed is a Provider fed by the renderer, which owns the device GPS.
type Pushed struct {
	mu  sync.RWMutex
	pos *Coordinates
}

// Set records the latest position.
func (p *Pushed) Set(c Coordinates) {
	p.mu.Lock()
	p.pos = &c
	p.mu.Unlock()
}

// Position returns the last pushed position.
func (p *Pushed) Position(context.Context) (Coordinates, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.pos == nil {
		return Coordinates{}, ErrNoPosition
	}
	return *p.pos, nil
}

// Service resolves the courier location.
type Service struct {
	store    kv.Store
	pushed   *Pushed
	provider Provider
	geocoder Geocoder
	fallback Location
	logger   logx.Logger
	now      func() time.Time
}

// NewService creates a Service. When provider is nil, positions pushed via
// Update are used.
func NewService(store kv.Store, provider Provider, geocoder Geocoder, fallback Location, logger logx.Logger) *Service {
	pushed := &Pushed{}
	if provider == nil {
		provider = pushed
	}
	if logger == nil {
		logger = logx.Nop()
	}
	fallback.Fallback = true
	return &Service{
		store:    store,
		pushed:   pushed,
		provider: provider,
		geocoder: geocoder,
		fallback: fallback,
		logger:   logger.With(logx.Component("location")),
		now:      time.Now,
	}
}

// Locate returns the cached location while fresh, otherwise resolves a new
// one. Failures resolve to the fallback location and are only logged.
func (s *Service) Locate(ctx context.Context) Location {
	if loc, ok := s.cached(ctx); ok {
		return loc
	}

	pos, err := s.provider.Position(ctx)
	if err != nil {
		s.logger.Warn("position unavailable, using fallback", logx.Err(err))
		return s.fallbackAt()
	}
	place, err := s.geocoder.Reverse(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		s.logger.Warn("reverse geocode failed, using fallback", logx.Err(err))
		return s.fallbackAt()
	}

	loc := Location{
		City:       place.City,
		Country:    place.Country,
		Address:    place.Address,
		Latitude:   pos.Latitude,
		Longitude:  pos.Longitude,
		ResolvedAt: s.now(),
	}
	if raw, err := json.Marshal(loc); err == nil {
		if err := s.store.Set(ctx, kv.KeyLocation, raw, Freshness); err != nil {
			s.logger.Warn("cache location", logx.Err(err))
		}
	}
	return loc
}

// Update records a device position pushed by the renderer and drops the cache.
func (s *Service) Update(ctx context.Context, c Coordinates) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.pushed.Set(c)
	return s.store.Delete(ctx, kv.KeyLocation)
}

func (s *Service) cached(ctx context.Context) (Location, bool) {
	raw, ok, err := s.store.Get(ctx, kv.KeyLocation)
	if err != nil {
		s.logger.Warn("read cached location", logx.Err(err))
		return Location{}, false
	}
	if !ok {
		return Location{}, false
	}
	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return Location{}, false
	}
	if s.now().Sub(loc.ResolvedAt) >= Freshness {
		return Location{}, false
	}
	return loc, true
}

func (s *Service) fallbackAt() Location {
	loc := s.fallback
	loc.ResolvedAt = s.now()
	return loc
}
