// Package session keeps the courier's credential and the explicit guard
// state that breaks authentication failure loops.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"courier-companion/internal/kv"
)

// ErrNoCredential is returned when no usable credential is stored.
var ErrNoCredential = errors.New("no session credential")

// ErrInvalidToken is returned by Save when the credential cannot be parsed.
var ErrInvalidToken = errors.New("invalid session token")

// Identity is what the agent reads from the credential. The signature is
// verified by the backend, never here.
type Identity struct {
	Token     string
	CourierID string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry. Tokens without exp never expire.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

type claims struct {
	jwt.RegisteredClaims
	UserID any `json:"user_id,omitempty"`
}

// Parse extracts the identity from a JWT without verifying it.
func Parse(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrNoCredential
	}
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Identity{}, fmt.Errorf("parse session token: %w", err)
	}
	id := Identity{Token: token, CourierID: c.Subject}
	if id.CourierID == "" && c.UserID != nil {
		id.CourierID = fmt.Sprint(c.UserID)
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id, nil
}

// Store persists the session credential.
type Store struct {
	kv  kv.Store
	now func() time.Time
}

// NewStore creates a Store over a key-value backend.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store, now: time.Now}
}

// Save validates and stores the credential.
func (s *Store) Save(ctx context.Context, token string) (Identity, error) {
	id, err := Parse(token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if err := s.kv.Set(ctx, kv.KeySession, []byte(id.Token), 0); err != nil {
		return Identity{}, fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Load returns the stored identity. Missing, unparsable or expired credentials
// yield ErrNoCredential.
func (s *Store) Load(ctx context.Context) (Identity, error) {
	raw, ok, err := s.kv.Get(ctx, kv.KeySession)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, ErrNoCredential
	}
	id, err := Parse(string(raw))
	if err != nil || id.Expired(s.now()) {
		return Identity{}, ErrNoCredential
	}
	return id, nil
}

// Token returns the raw credential, or ErrNoCredential.
func (s *Store) Token(ctx context.Context) (string, error) {
	id, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	return id.Token, nil
}

// Clear removes the credential.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, kv.KeySession)
}
