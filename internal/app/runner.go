package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"courier-companion/internal/config"
	"courier-companion/internal/events"
	"courier-companion/internal/kv"
	"courier-companion/internal/logx"
	"courier-companion/internal/realtime"
	"courier-companion/internal/service/deliveries"
	"courier-companion/internal/service/offers"
)

const (
	shutdownTimeout = 15 * time.Second
	purgeInterval   = 10 * time.Minute
)

// Runner runs the courier agent.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun runs the agent from the container until its context is done.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}

	var logger logx.Logger = logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		panic(err)
	}
}

type agentIn struct {
	dig.In

	Ctx       context.Context
	Config    *config.Config
	Logger    logx.Logger
	Server    *http.Server
	Pprof     *http.Server `name:"pprof_server" optional:"true"`
	Store     kv.Store
	Closer    stateCloser
	Publisher events.Publisher
	Bus       *realtime.Bus
	Realtime  *realtime.Client
	Board     *offers.Board
	Feed      *deliveries.Feed
}

func run(container *dig.Container) error {
	return container.Invoke(agentRun)
}

func agentRun(in agentIn) error {
	logger := in.Logger
	defer closeResources(in.Publisher, in.Closer, logger)

	g, ctx := errgroup.WithContext(in.Ctx)

	unsubscribe := subscribeAgent(ctx, in.Bus, in.Board, in.Board, in.Feed, logger)
	defer unsubscribe()

	if p, ok := in.Store.(purger); ok {
		startPurgeLoop(ctx, logger, p, purgeInterval)
	}

	servers := []*http.Server{in.Server}
	if in.Pprof != nil {
		servers = append(servers, in.Pprof)
	}
	for _, srv := range servers {
		g.Go(func() error { return serve(srv, logger) })
	}

	g.Go(func() error {
		return in.Board.Run(ctx, in.Config.Offers.TickInterval, in.Config.Offers.RefreshInterval)
	})

	g.Go(func() error {
		connectRealtime(ctx, in.Realtime, in.Config.Upstream.RealtimeMode, logger)
		<-ctx.Done()
		in.Realtime.Disconnect()
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down courier-agent")
		for _, srv := range servers {
			gracefulShutdown(srv, logger, shutdownTimeout)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return in.Ctx.Err()
}

// connectRealtime opens the channel once. Without a credential the agent
// still serves; PUT /session connects later.
func connectRealtime(ctx context.Context, ch *realtime.Client, mode string, logger logx.Logger) {
	err := ch.Connect(ctx, mode)
	switch {
	case err == nil:
	case errors.Is(err, realtime.ErrNoCredential):
		logger.Info("waiting for a session before connecting realtime")
	default:
		logger.Warn("realtime connect failed, will retry", logx.Err(err))
	}
}

func serve(srv *http.Server, logger logx.Logger) error {
	logger.Info("listening", logx.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
	}
}

func closeResources(pub events.Publisher, closer stateCloser, logger logx.Logger) {
	if pub != nil {
		if err := pub.Close(); err != nil {
			logger.Error("publisher close error", logx.Err(err))
		}
	}
	if closer != nil {
		if err := closer(); err != nil {
			logger.Error("state close error", logx.Err(err))
		}
	}
}
