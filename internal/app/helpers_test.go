package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"courier-companion/internal/logx"
	testlog "courier-companion/internal/testutil"
)

// stubs the package-level pool factory; tests using it must not run in parallel
func withStubNewPool(t *testing.T, stub func(context.Context, string) (*pgxpool.Pool, error)) {
	t.Helper()
	orig := newPool
	newPool = stub
	t.Cleanup(func() { newPool = orig })
}

func TestConnectDbWithRetry(t *testing.T) {
	sentinel := errors.New("db boom")
	want := &pgxpool.Pool{}

	cases := []struct {
		name      string
		failFirst int
		retries   int
		wantCalls int
		wantErr   error
		wantWarns int
	}{
		{name: "first attempt", failFirst: 0, retries: 3, wantCalls: 1},
		{name: "recovers on third attempt", failFirst: 2, retries: 3, wantCalls: 3, wantWarns: 2},
		{name: "exhausts retries", failFirst: 5, retries: 3, wantCalls: 3, wantErr: sentinel, wantWarns: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
				calls++
				if calls <= tc.failFirst {
					return nil, sentinel
				}
				return want, nil
			})

			rec := testlog.New()
			pool, err := connectDbWithRetry(context.Background(), rec.Logger(), "postgres://stub", tc.retries, 0)

			require.Equal(t, tc.wantCalls, calls)
			require.Equal(t, tc.wantWarns, rec.Count("warn", "db connect failed"))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Nil(t, pool)
				return
			}
			require.NoError(t, err)
			require.Same(t, want, pool)
			require.Equal(t, 1, rec.Count("info", "db connected"))
		})
	}
}

func TestConnectDbWithRetry_ContextCanceledBetweenRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		return nil, errors.New("db boom")
	})

	pool, err := connectDbWithRetry(ctx, logx.Nop(), "postgres://stub", 3, 50*time.Millisecond)
	require.Nil(t, pool)
	require.ErrorIs(t, err, context.Canceled)
}
