package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"courier-companion/internal/config"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "APP_ENV", "API_BASE_URL", "REALTIME_URL", "REALTIME_MODE", "REALTIME_RELAY_MODE",
		"REALTIME_RECONNECT_DELAY", "OFFER_DEFAULT_WINDOW", "STATE_BACKEND",
		"POSTGRES_HOST", "POSTGRES_PORT", "REDIS_ADDR", "NATS_URL", "AUTH_GUARD_LIMIT",
		"RATE_LIMIT_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadArgs(newFlags(), nil)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.Dev)
	require.Equal(t, "courier", cfg.Upstream.RealtimeMode)
	require.Equal(t, "business", cfg.Upstream.RelayMode)
	require.Equal(t, 5*time.Second, cfg.Upstream.ReconnectDelay)
	require.Equal(t, 60*time.Second, cfg.Offers.DefaultWindow)
	require.Equal(t, time.Second, cfg.Offers.TickInterval)
	require.Equal(t, "memory", cfg.State.Backend)
	require.Equal(t, "127.0.0.1", cfg.State.DB.Host)
	require.Equal(t, 3, cfg.GuardLimit)
	require.Empty(t, cfg.NATS.URL)
	require.Equal(t, "courier.events", cfg.NATS.Subject)
	require.Equal(t, config.DefaultLocation(), cfg.Location)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "development")
	t.Setenv("REALTIME_MODE", "business")
	t.Setenv("REALTIME_RECONNECT_DELAY", "2s")
	t.Setenv("OFFER_DEFAULT_WINDOW", "45s")
	t.Setenv("STATE_BACKEND", "postgres")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "15432")
	t.Setenv("NATS_URL", "nats://nats:4222")

	cfg, err := config.LoadArgs(newFlags(), nil)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.True(t, cfg.Dev)
	require.Equal(t, "business", cfg.Upstream.RealtimeMode)
	require.Equal(t, 2*time.Second, cfg.Upstream.ReconnectDelay)
	require.Equal(t, 45*time.Second, cfg.Offers.DefaultWindow)
	require.Equal(t, "postgres", cfg.State.Backend)
	require.Equal(t, "postgres://courier:courier@db:15432/courier_state?sslmode=disable", cfg.State.DB.DSN())
	require.Equal(t, "nats://nats:4222", cfg.NATS.URL)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := config.LoadArgs(newFlags(), []string{"--port=7070", "--mode=business", "--relay-mode=courier", "--dev"})
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Port)
	require.Equal(t, "business", cfg.Upstream.RealtimeMode)
	require.Equal(t, "courier", cfg.Upstream.RelayMode)
	require.True(t, cfg.Dev)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "70000")

	cfg, err := config.LoadArgs(newFlags(), nil)
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidPostgresPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_PORT", "not-a-number")

	cfg, err := config.LoadArgs(newFlags(), nil)
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("REALTIME_RECONNECT_DELAY", "soon")

	cfg, err := config.LoadArgs(newFlags(), nil)
	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "REALTIME_RECONNECT_DELAY")
}

func TestLoad_InvalidBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATE_BACKEND", "sqlite")

	cfg, err := config.LoadArgs(newFlags(), nil)
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_FlagsParseError(t *testing.T) {
	clearEnv(t)

	oldArgs := os.Args
	oldCommandLine := pflag.CommandLine
	defer func() {
		os.Args = oldArgs
		pflag.CommandLine = oldCommandLine
	}()

	pflag.CommandLine = newFlags()
	os.Args = []string{"cmd", "--port=not-a-number"}

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "parse flags")
}
