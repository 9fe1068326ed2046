package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"courier-companion/internal/kv"
)

func TestRedis_RoundTripWithPrefix(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	store, err := kv.NewRedis(ctx, kv.RedisConfig{Addr: s.Addr(), KeyPrefix: "courier:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(ctx, kv.KeySession, []byte("token"), 0))
	require.True(t, s.Exists("courier:"+kv.KeySession))

	got, ok, err := store.Get(ctx, kv.KeySession)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("token"), got)

	require.NoError(t, store.Delete(ctx, kv.KeySession))
	_, ok, err = store.Get(ctx, kv.KeySession)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedis_TTLExpires(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	store, err := kv.NewRedis(ctx, kv.RedisConfig{Addr: s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(ctx, kv.KeyLocation, []byte("{}"), 5*time.Minute))
	s.FastForward(5*time.Minute + time.Second)

	_, ok, err := store.Get(ctx, kv.KeyLocation)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := kv.NewRedis(ctx, kv.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}
