package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"courier-companion/internal/config"
	"courier-companion/internal/events"
	"courier-companion/internal/http/handlers"
	"courier-companion/internal/kv"
	"courier-companion/internal/logx"
	"courier-companion/internal/metrics"
	"courier-companion/internal/realtime"
	"courier-companion/internal/service/offers"
)

func testConfig() *config.Config {
	return &config.Config{
		Port: 8080,
		Upstream: config.Upstream{
			APIBaseURL:     "http://127.0.0.1:1/api",
			RealtimeURL:    "ws://127.0.0.1:1/ws/notifications/",
			RealtimeMode:   "courier",
			RelayMode:      "business",
			ReconnectDelay: time.Hour,
			RequestTimeout: time.Second,
		},
		Retry:    config.Retry{MaxAttempts: 1},
		Throttle: config.Throttle{Rate: 10, Burst: 10},
		Offers:   config.Offers{DefaultWindow: time.Minute, TickInterval: time.Second},
		State:    config.State{Backend: BackendMemory},
		Location: config.DefaultLocation(),
		RateLimit: config.RateLimit{
			Enabled: true,
			Rate:    100,
			Burst:   100,
		},
		GuardLimit: 3,
	}
}

func staticConfig(cfg *config.Config) func() (*config.Config, error) {
	return func() (*config.Config, error) { return cfg, nil }
}

func newTestBuilder(cfg *config.Config) *ContainerBuilder {
	return NewContainerBuilder().
		WithConfigLoader(staticConfig(cfg)).
		WithDBConnect(func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
			return nil, errors.New("postgres is not used in unit tests")
		})
}

type httpServersIn struct {
	dig.In

	Main  *http.Server
	Pprof *http.Server `name:"pprof_server" optional:"true"`
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

func TestRegisterCore_ProvidesDependencies(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()
	cfg := testConfig()

	require.NoError(t, registerCore(c, ctx, staticConfig(cfg)))

	type counterIn struct {
		dig.In
		Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	}

	err := c.Invoke(func(
		gotCtx context.Context,
		gotCfg *config.Config,
		logger logx.Logger,
		reg *prometheus.Registry,
		set *metrics.Set,
		in counterIn,
	) {
		require.Equal(t, ctx, gotCtx)
		require.Same(t, cfg, gotCfg)
		require.NotNil(t, logger)
		require.NotNil(t, reg)
		require.Same(t, set.RateLimitExceeded, in.Counter)
	})
	require.NoError(t, err)
}

func TestRegisterCore_ConfigErrorSurfacesOnInvoke(t *testing.T) {
	t.Parallel()

	c := dig.New()
	sentinel := errors.New("bad env")
	require.NoError(t, registerCore(c, context.Background(), func() (*config.Config, error) {
		return nil, sentinel
	}))

	err := c.Invoke(func(*config.Config) {})
	require.ErrorIs(t, err, sentinel)
}

func TestOpenState_Memory(t *testing.T) {
	t.Parallel()

	store, closer, err := openState(context.Background(), testConfig(), logx.Nop(), nil, nil)
	require.NoError(t, err)
	require.IsType(t, &kv.Memory{}, store)
	require.NoError(t, closer())
}

func TestOpenState_Redis(t *testing.T) {
	t.Parallel()

	s := miniredis.RunT(t)
	cfg := testConfig()
	cfg.State.Backend = BackendRedis
	cfg.State.Redis = config.Redis{Addr: s.Addr(), KeyPrefix: "test:"}

	ctx := context.Background()
	store, closer, err := openState(ctx, cfg, logx.Nop(), nil, kv.NewRedis)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	require.NoError(t, store.Set(ctx, kv.KeyCountry, []byte("GH"), 0))
	require.True(t, s.Exists("test:"+kv.KeyCountry))
}

func TestOpenState_PostgresConnectError(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.State.Backend = BackendPostgres
	sentinel := errors.New("db failed")

	var gotDSN string
	connect := func(_ context.Context, _ logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error) {
		gotDSN = dsn
		require.Equal(t, 10, retries)
		require.Equal(t, time.Second, delay)
		return nil, sentinel
	}

	_, _, err := openState(context.Background(), cfg, logx.Nop(), connect, nil)
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, cfg.State.DB.DSN(), gotDSN)
}

func TestOpenState_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.State.Backend = "etcd"

	_, _, err := openState(context.Background(), cfg, logx.Nop(), nil, nil)
	require.ErrorContains(t, err, "unknown state backend")
}

func TestNewPublisher_NoopWithoutURL(t *testing.T) {
	t.Parallel()

	pub, err := newPublisher(testConfig(), logx.Nop())
	require.NoError(t, err)
	require.IsType(t, events.NoopPublisher{}, pub)
}

func TestContainerBuilder_Build_ProvidesAgentGraph(t *testing.T) {
	t.Parallel()

	c, err := newTestBuilder(testConfig()).build(context.Background())
	require.NoError(t, err)

	err = c.Invoke(func(
		servers httpServersIn,
		base *handlers.Handlers,
		session *handlers.SessionHandler,
		pin *handlers.PinHandler,
		board *offers.Board,
		rt *realtime.Client,
		store kv.Store,
	) {
		require.NotNil(t, servers.Main)
		require.Equal(t, ":8080", servers.Main.Addr)
		require.Greater(t, servers.Main.ReadHeaderTimeout, time.Duration(0))
		require.Greater(t, servers.Main.WriteTimeout, time.Duration(0))
		require.Nil(t, servers.Pprof)

		require.NotNil(t, base)
		require.NotNil(t, session)
		require.NotNil(t, pin)
		require.NotNil(t, board)
		require.False(t, rt.Connected())
		require.IsType(t, &kv.Memory{}, store)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_PprofEnabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Pprof = config.Pprof{Addr: "127.0.0.1:6060"}

	c, err := newTestBuilder(cfg).build(context.Background())
	require.NoError(t, err)

	err = c.Invoke(func(in httpServersIn) {
		require.NotNil(t, in.Pprof)
		require.Equal(t, "127.0.0.1:6060", in.Pprof.Addr)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_RouterServesLocalAPI(t *testing.T) {
	t.Parallel()

	c, err := newTestBuilder(testConfig()).build(context.Background())
	require.NoError(t, err)

	var mux http.Handler
	require.NoError(t, c.Invoke(func(h http.Handler) { mux = h }))

	serve := func(method, target string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
		return rr
	}

	require.Equal(t, http.StatusOK, serve(http.MethodGet, "/ping").Code)

	rr := serve(http.MethodGet, "/offers")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"offers":[]`)

	rr = serve(http.MethodGet, "/session")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(http.MethodGet, "/config/countries/ke")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "go_goroutines")
	require.Contains(t, rr.Body.String(), "agent_http_requests_total")
}

func TestContainerBuilder_BuildWorker(t *testing.T) {
	t.Parallel()

	c, err := newTestBuilder(testConfig()).buildWorker(context.Background())
	require.NoError(t, err)

	err = c.Invoke(func(rt *realtime.Client, bus *realtime.Bus, pub events.Publisher) {
		require.NotNil(t, rt)
		require.NotNil(t, bus)
		require.NotNil(t, pub)
	})
	require.NoError(t, err)

	err = c.Invoke(func(*http.Server) {})
	require.Error(t, err, "worker container must not provide the local API")
}

func TestContainerBuilder_MustBuild_DoesNotCallFatal(t *testing.T) {
	t.Parallel()

	builder := newTestBuilder(testConfig()).
		WithLogFatalf(func(format string, args ...interface{}) {
			require.FailNowf(t, "logFatalf must not be called", format, args...)
		})

	require.NotNil(t, builder.MustBuild(context.Background()))
	require.NotNil(t, builder.MustBuildWorker(context.Background()))
}
