package app

import (
	"time"

	"go.uber.org/dig"

	"courier-companion/internal/catalog"
	"courier-companion/internal/config"
	"courier-companion/internal/events"
	natspub "courier-companion/internal/events/nats"
	"courier-companion/internal/gateway"
	"courier-companion/internal/http/middleware/ratelimit"
	"courier-companion/internal/kv"
	"courier-companion/internal/location"
	"courier-companion/internal/logx"
	"courier-companion/internal/metrics"
	"courier-companion/internal/realtime"
	"courier-companion/internal/service/deliveries"
	"courier-companion/internal/service/handoff"
	"courier-companion/internal/service/offers"
	"courier-companion/internal/session"
)

const handshakeTimeout = 10 * time.Second

func registerGateway(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, store kv.Store) *session.Guard {
			return session.NewGuard(store, cfg.GuardLimit)
		},
		newBackendClient,
		func(cfg *config.Config, client *gateway.Client, set *metrics.Set, logger logx.Logger) gateway.Doer {
			return gateway.NewRetryingClient(client, logger, set.GatewayRetries, gateway.RetryConfig{
				MaxAttempts: cfg.Retry.MaxAttempts,
				BaseDelay:   cfg.Retry.BaseDelay,
				MaxDelay:    cfg.Retry.MaxDelay,
			})
		},
		gateway.NewCourierAPI,
		gateway.NewMarketplaceAPI,
		gateway.NewInventoryAPI,
		gateway.NewGeoAPI,
	)
}

// newBackendClient throttles outbound calls per endpoint with the same token
// bucket that guards the local API.
func newBackendClient(
	cfg *config.Config,
	creds *session.Store,
	guard *session.Guard,
	logger logx.Logger,
) (*gateway.Client, error) {
	throttle := ratelimit.NewTokenBucket(ratelimit.RealClock{}, ratelimit.Config{
		Rate:  cfg.Throttle.Rate,
		Burst: cfg.Throttle.Burst,
	})
	return gateway.NewClient(gateway.Options{
		BaseURL: cfg.Upstream.APIBaseURL,
		Timeout: cfg.Upstream.RequestTimeout,
	}, creds, guard, throttle, logger)
}

// registerRealtime provides everything both binaries share: the session
// store, the realtime channel and the event publisher.
func registerRealtime(container *dig.Container) error {
	return provideAll(container,
		session.NewStore,
		realtime.NewBus,
		func(cfg *config.Config, creds *session.Store, bus *realtime.Bus, set *metrics.Set, logger logx.Logger) *realtime.Client {
			return realtime.NewClient(realtime.Options{
				URL:            cfg.Upstream.RealtimeURL,
				ReconnectDelay: cfg.Upstream.ReconnectDelay,
				Dev:            cfg.Dev,
				Reconnects:     set.RealtimeReconnect,
				Events:         set.RealtimeEvents,
			}, realtime.NewWebsocketDialer(handshakeTimeout), creds, bus, logger)
		},
		newPublisher,
	)
}

func newPublisher(cfg *config.Config, logger logx.Logger) (events.Publisher, error) {
	if cfg.NATS.URL == "" {
		logger.Info("nats url not set, events are not published")
		return events.NoopPublisher{}, nil
	}
	pub, err := natspub.New(cfg.NATS.URL, cfg.NATS.Subject)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing events to nats", logx.String("subject", cfg.NATS.Subject))
	return pub, nil
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		catalog.New,
		catalog.NewSelection,
		func(cfg *config.Config, store kv.Store, geo *gateway.GeoAPI, logger logx.Logger) *location.Service {
			fb := cfg.Location
			return location.NewService(store, nil, geo, location.Location{
				City:      fb.City,
				Country:   fb.Country,
				Address:   fb.Address,
				Latitude:  fb.Latitude,
				Longitude: fb.Longitude,
			}, logger)
		},
		func(api *gateway.CourierAPI, pub events.Publisher, logger logx.Logger) *deliveries.Feed {
			return deliveries.NewFeed(api, pub, logger)
		},
		func(
			cfg *config.Config,
			api *gateway.CourierAPI,
			creds *session.Store,
			feed *deliveries.Feed,
			bus *realtime.Bus,
			pub events.Publisher,
			set *metrics.Set,
			logger logx.Logger,
		) *offers.Board {
			return offers.New(offers.Options{
				DefaultWindow: cfg.Offers.DefaultWindow,
				Outcomes:      set.OfferOutcomes,
			}, api, creds, feed, bus, pub, logger)
		},
		func(
			api *gateway.CourierAPI,
			feed *deliveries.Feed,
			pub events.Publisher,
			set *metrics.Set,
			logger logx.Logger,
		) *handoff.Service {
			return handoff.NewService(api, feed, pub, set.PinAttempts, logger)
		},
	)
}
