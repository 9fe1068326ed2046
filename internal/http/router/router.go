package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"courier-companion/internal/http/handlers"
	obs "courier-companion/internal/http/middleware"
	"courier-companion/internal/http/middleware/ratelimit"
)

// Handlers groups everything the local API serves.
type Handlers struct {
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

// Middlewares are the optional cross-cutting layers; nil ones are skipped.
type Middlewares struct {
	Observability *obs.Observability
	RateLimit     *ratelimit.Middleware
	Metrics       http.Handler
}

// New builds the local API router.
func New(h Handlers, mw Middlewares) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if mw.Observability != nil {
		r.Use(mw.Observability.Handler())
	}
	r.Use(middleware.Recoverer)

	r.Get("/ping", h.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(h.Base.HealthcheckHead))
	if mw.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", mw.Metrics)
	}

	r.Group(func(r chi.Router) {
		if mw.RateLimit != nil {
			r.Use(mw.RateLimit.Handler())
		}
		// PIN verification and upstream retries may take longer than a plain read
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/session", h.Session.Get)
		r.Put("/session", h.Session.Put)
		r.Delete("/session", h.Session.Delete)

		r.Get("/offers", h.Offers.List)
		r.Post("/offers/refresh", h.Offers.Refresh)
		r.Post("/offers/{id}/accept", h.Offers.Accept)

		r.Get("/deliveries", h.Deliveries.List)
		r.Post("/deliveries/{id}/status", h.Deliveries.SetStatus)
		r.Get("/deliveries/{id}/pin", h.Pin.State)
		r.Post("/deliveries/{id}/pin/type", h.Pin.Type)
		r.Post("/deliveries/{id}/pin/backspace", h.Pin.Backspace)
		r.Post("/deliveries/{id}/pin/submit", h.Pin.Submit)

		r.Get("/config/countries", h.Config.Countries)
		r.Get("/config/countries/{code}", h.Config.Country)
		r.Get("/config/business/{code}", h.Config.Business)
		r.Get("/config/country", h.Config.Current)
		r.Put("/config/country", h.Config.SelectCountry)

		r.Get("/location", h.Location.Get)
		r.Put("/location", h.Location.Update)

		r.Get("/courier/profile", h.Courier.Profile)
		r.Put("/courier/profile", h.Courier.UpdateProfile)
		r.Put("/courier/online", h.Courier.SetOnline)
		r.Get("/courier/earnings", h.Courier.Earnings)

		r.Get("/marketplace/businesses", h.Marketplace.Businesses)
		r.Get("/marketplace/businesses/{id}/items", h.Marketplace.Items)
		r.Get("/marketplace/categories", h.Marketplace.Categories)
		r.Get("/marketplace/featured", h.Marketplace.Featured)
	})

	r.NotFound(http.HandlerFunc(h.Base.NotFound))
	return r
}
