package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"courier-companion/internal/kv"
)

// StateRepo is a kv.Store over the app_state table.
type StateRepo struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewStateRepo creates a new StateRepo.
func NewStateRepo(db *pgxpool.Pool) *StateRepo {
	return &StateRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the value for key unless it is missing or expired.
func (r *StateRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRow(ctx, `
        SELECT value
        FROM app_state
        WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)
    `, key, r.now()).Scan(&value)
	if err != nil {
		if IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get state %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value; the last writer wins.
func (r *StateRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := r.now()
	var expiresAt *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expiresAt = &t
	}
	_, err := r.db.Exec(ctx, `
        INSERT INTO app_state (key, value, expires_at, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (key) DO UPDATE
        SET value = EXCLUDED.value,
            expires_at = EXCLUDED.expires_at,
            updated_at = EXCLUDED.updated_at
    `, key, value, expiresAt, now)
	if err != nil {
		return fmt.Errorf("set state %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *StateRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM app_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}

// PurgeExpired removes expired rows and reports how many were deleted.
func (r *StateRepo) PurgeExpired(ctx context.Context) (int64, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM app_state WHERE expires_at IS NOT NULL AND expires_at <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired state: %w", err)
	}
	return ct.RowsAffected(), nil
}

var _ kv.Store = (*StateRepo)(nil)
