package session

import (
	"context"
	"strconv"

	"courier-companion/internal/kv"
)

// Guard counts repeated failures per name and trips once a limit is reached.
// It is passed explicitly to the components that need loop breaking.
type Guard struct {
	store kv.Store
	limit int
}

// NewGuard creates a Guard that trips on the limit-th hit.
func NewGuard(store kv.Store, limit int) *Guard {
	if limit < 1 {
		limit = 1
	}
	return &Guard{store: store, limit: limit}
}

// Hit increments the named counter and reports whether it tripped.
// Read-modify-write is last-write-wins; concurrent hits may undercount.
func (g *Guard) Hit(ctx context.Context, name string) (bool, error) {
	n, err := g.Count(ctx, name)
	if err != nil {
		return false, err
	}
	n++
	if err := g.store.Set(ctx, kv.GuardKey(name), []byte(strconv.Itoa(n)), 0); err != nil {
		return false, err
	}
	return n >= g.limit, nil
}

// Count returns the current value of the named counter.
func (g *Guard) Count(ctx context.Context, name string) (int, error) {
	raw, ok, err := g.store.Get(ctx, kv.GuardKey(name))
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Reset clears the named counter.
func (g *Guard) Reset(ctx context.Context, name string) error {
	return g.store.Delete(ctx, kv.GuardKey(name))
}
