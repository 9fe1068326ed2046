// Package kv is the local persisted state: a small key-value API with
// last-write-wins semantics and no transactions.
package kv

import (
	"context"
	"time"
)

// Store persists opaque values by key. A zero ttl keeps the value until deleted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Keys used by the agent.
const (
	KeySession         = "session:credential"
	KeyCountry         = "selection:country"
	KeyBusinessPayload = "selection:business_payload"
	KeyLocation        = "location:cached"
)

// FeaturesKey scopes the selected optional features to a user.
func FeaturesKey(userID string) string {
	return "features:" + userID
}

// GuardKey names a loop-breaker counter.
func GuardKey(name string) string {
	return "guard:" + name
}
