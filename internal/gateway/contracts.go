package gateway

import (
	"context"
)

// Doer performs one backend request and returns the raw 2xx body.
type Doer interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// Credentials supplies and drops the bearer credential.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// AuthGuard counts authentication failures and trips after repeated ones.
type AuthGuard interface {
	Hit(ctx context.Context, name string) (bool, error)
	Reset(ctx context.Context, name string) error
}

// Limiter throttles outbound requests per key.
type Limiter interface {
	Allow(key string) bool
}

type counter interface {
	Inc()
}
