package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"courier-companion/internal/catalog"
	"courier-companion/internal/config"
	"courier-companion/internal/gateway"
	"courier-companion/internal/http/handlers"
	obs "courier-companion/internal/http/middleware"
	"courier-companion/internal/http/middleware/ratelimit"
	"courier-companion/internal/http/pprofserver"
	"courier-companion/internal/http/router"
	"courier-companion/internal/location"
	"courier-companion/internal/logx"
	"courier-companion/internal/realtime"
	"courier-companion/internal/service/deliveries"
	"courier-companion/internal/service/handoff"
	"courier-companion/internal/service/offers"
	"courier-companion/internal/session"
)

func registerHTTP(container *dig.Container) error {
	if err := provideAll(container,
		handlers.New,
		func(logger logx.Logger, cfg *config.Config, store *session.Store, ch *realtime.Client) *handlers.SessionHandler {
			return handlers.NewSessionHandler(logger, store, ch, cfg.Upstream.RealtimeMode)
		},
		func(logger logx.Logger, board *offers.Board) *handlers.OfferHandler {
			return handlers.NewOfferHandler(logger, board)
		},
		func(logger logx.Logger, feed *deliveries.Feed) *handlers.DeliveryHandler {
			return handlers.NewDeliveryHandler(logger, feed)
		},
		func(logger logx.Logger, svc *handoff.Service) *handlers.PinHandler {
			return handlers.NewPinHandler(logger, svc)
		},
		func(logger logx.Logger, res *catalog.Resolver, sel *catalog.Selection) *handlers.ConfigHandler {
			return handlers.NewConfigHandler(logger, res, sel)
		},
		func(logger logx.Logger, loc *location.Service) *handlers.LocationHandler {
			return handlers.NewLocationHandler(logger, loc)
		},
		func(logger logx.Logger, api *gateway.CourierAPI) *handlers.CourierHandler {
			return handlers.NewCourierHandler(logger, api)
		},
		func(
			logger logx.Logger,
			market *gateway.MarketplaceAPI,
			inv *gateway.InventoryAPI,
			loc *location.Service,
		) *handlers.MarketplaceHandler {
			return handlers.NewMarketplaceHandler(logger, market, inv, loc)
		},
		obs.NewObservability,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newServer,
	); err != nil {
		return err
	}
	return container.Provide(newPprofServer, dig.Name("pprof_server"))
}

func newRateLimiter(cfg *config.Config) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.NopLimiter{}
	}
	return ratelimit.NewTokenBucket(ratelimit.RealClock{}, ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		TTL:        rl.TTL,
		MaxBuckets: rl.MaxBuckets,
	})
}

type rateLimitIn struct {
	dig.In
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}

type routerIn struct {
	dig.In

	Registry      *prometheus.Registry
	Observability *obs.Observability
	RateLimit     *ratelimit.Middleware

	Base        *handlers.Handlers
	Session     *handlers.SessionHandler
	Offers      *handlers.OfferHandler
	Deliveries  *handlers.DeliveryHandler
	Pin         *handlers.PinHandler
	Config      *handlers.ConfigHandler
	Location    *handlers.LocationHandler
	Courier     *handlers.CourierHandler
	Marketplace *handlers.MarketplaceHandler
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Handlers{
		Base:        in.Base,
		Session:     in.Session,
		Offers:      in.Offers,
		Deliveries:  in.Deliveries,
		Pin:         in.Pin,
		Config:      in.Config,
		Location:    in.Location,
		Courier:     in.Courier,
		Marketplace: in.Marketplace,
	}, router.Middlewares{
		Observability: in.Observability,
		RateLimit:     in.RateLimit,
		Metrics:       promhttp.HandlerFor(in.Registry, promhttp.HandlerOpts{Registry: in.Registry}),
	})
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// PIN submit may wait for retried upstream calls
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// newPprofServer returns nil when the debug listener is disabled.
func newPprofServer(cfg *config.Config) *http.Server {
	return pprofserver.NewServer(pprofserver.Config{
		Addr: cfg.Pprof.Addr,
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	})
}
