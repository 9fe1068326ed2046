package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"courier-companion/internal/kv"
)

// Selection persists the selected country and its resolved payload.
type Selection struct {
	resolver *Resolver
	store    kv.Store
}

// NewSelection creates a Selection over the given store.
func NewSelection(r *Resolver, store kv.Store) *Selection {
	return &Selection{resolver: r, store: store}
}

// Select resolves code and replaces the cached payload wholesale.
func (s *Selection) Select(ctx context.Context, code string) (Configuration, error) {
	cfg := s.resolver.Resolve(code)
	payload, err := json.Marshal(cfg)
	if err != nil {
		return Configuration{}, fmt.Errorf("encode configuration: %w", err)
	}
	if err := s.store.Set(ctx, kv.KeyCountry, []byte(cfg.Code), 0); err != nil {
		return Configuration{}, err
	}
	if err := s.store.Set(ctx, kv.KeyBusinessPayload, payload, 0); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Current returns the cached configuration. A missing or unreadable cache
// resolves the stored code again, falling back to the default entry.
func (s *Selection) Current(ctx context.Context) (Configuration, error) {
	raw, ok, err := s.store.Get(ctx, kv.KeyBusinessPayload)
	if err != nil {
		return Configuration{}, err
	}
	if ok {
		var cfg Configuration
		if json.Unmarshal(raw, &cfg) == nil && cfg.Code != "" {
			return cfg, nil
		}
	}
	code, _, err := s.store.Get(ctx, kv.KeyCountry)
	if err != nil {
		return Configuration{}, err
	}
	return s.resolver.Resolve(string(code)), nil
}

// SetFeatures stores the optional features a user picked.
func (s *Selection) SetFeatures(ctx context.Context, userID string, features []string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("set features: empty user id")
	}
	b, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, kv.FeaturesKey(userID), b, 0)
}

// Features returns the optional features a user picked, nil when none.
func (s *Selection) Features(ctx context.Context, userID string) ([]string, error) {
	raw, ok, err := s.store.Get(ctx, kv.FeaturesKey(userID))
	if err != nil || !ok {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return out, nil
}
