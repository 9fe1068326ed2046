package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"courier-companion/internal/config"
	"courier-companion/internal/kv"
	"courier-companion/internal/logx"
	"courier-companion/internal/metrics"
	"courier-companion/internal/repository"
)

// State backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type (
	dbConnectFunc    func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)
	redisConnectFunc func(context.Context, kv.RedisConfig) (*kv.Redis, error)
	configLoaderFunc func() (*config.Config, error)
)

// stateCloser releases the state backend connection.
type stateCloser func() error

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig   configLoaderFunc
	dbConnect    dbConnectFunc
	redisConnect redisConnectFunc
	logFatalf    func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig:   config.Load,
		dbConnect:    connectDbWithRetry,
		redisConnect: kv.NewRedis,
		logFatalf:    log.Fatalf,
	}
}

// WithConfigLoader sets the configuration source
func (b *ContainerBuilder) WithConfigLoader(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithRedisConnect sets the redis connection function
func (b *ContainerBuilder) WithRedisConnect(fn func(context.Context, kv.RedisConfig) (*kv.Redis, error)) *ContainerBuilder {
	if fn != nil {
		b.redisConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the courier agent container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the relay worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerState(container, b.dbConnect, b.redisConnect); err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}
	if err := registerGateway(container); err != nil {
		return nil, fmt.Errorf("gateway: %w", err)
	}
	if err := registerRealtime(container); err != nil {
		return nil, fmt.Errorf("realtime: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerState(container, b.dbConnect, b.redisConnect); err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}
	if err := registerRealtime(container); err != nil {
		return nil, fmt.Errorf("realtime: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the courier agent container with defaults.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the relay worker container with defaults.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, load configLoaderFunc) error {
	if err := provideAll(container,
		func() context.Context { return ctx },
		load,
		NewLogger,
		newRegistry,
		metrics.NewSet,
	); err != nil {
		return err
	}
	return container.Provide(
		func(set *metrics.Set) prometheus.Counter { return set.RateLimitExceeded },
		dig.Name("rate_limit_exceeded_total"),
	)
}

// newRegistry is a private registry so tests and both binaries never share
// collectors with the global default one.
func newRegistry() (*prometheus.Registry, prometheus.Registerer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, reg
}

func registerState(container *dig.Container, dbConnect dbConnectFunc, redisConnect redisConnectFunc) error {
	provider := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (kv.Store, stateCloser, error) {
		return openState(ctx, cfg, logger, dbConnect, redisConnect)
	}
	return provideAll(container, provider)
}

func openState(
	ctx context.Context,
	cfg *config.Config,
	logger logx.Logger,
	dbConnect dbConnectFunc,
	redisConnect redisConnectFunc,
) (kv.Store, stateCloser, error) {
	switch cfg.State.Backend {
	case BackendRedis:
		r, err := redisConnect(ctx, kv.RedisConfig{
			Addr:      cfg.State.Redis.Addr,
			Password:  cfg.State.Redis.Password,
			DB:        cfg.State.Redis.DB,
			KeyPrefix: cfg.State.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("state backend ready", logx.String("backend", BackendRedis))
		return r, r.Close, nil

	case BackendPostgres:
		pool, err := dbConnect(ctx, logger, cfg.State.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("state backend ready", logx.String("backend", BackendPostgres))
		return repository.NewStateRepo(pool), func() error { pool.Close(); return nil }, nil

	case BackendMemory, "":
		return kv.NewMemory(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
}
