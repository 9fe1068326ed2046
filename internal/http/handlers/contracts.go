package handlers

import (
	"context"

	"courier-companion/internal/catalog"
	"courier-companion/internal/domain"
	"courier-companion/internal/location"
	"courier-companion/internal/service/deliveries"
	"courier-companion/internal/service/handoff"
	"courier-companion/internal/service/offers"
	"courier-companion/internal/session"
)

type offerBoard interface {
	List() offers.Snapshot
	Refresh(ctx context.Context) error
	Accept(ctx context.Context, id string) (domain.ActiveDelivery, error)
}

type deliveryFeed interface {
	Active() deliveries.List
	Completed() deliveries.List
	RefreshActive(ctx context.Context) error
	RefreshCompleted(ctx context.Context) error
	SetStatus(ctx context.Context, id string, to domain.DeliveryStatus) (domain.ActiveDelivery, error)
}

type challenges interface {
	Challenge(id string) (*handoff.PinChallenge, error)
}

type resolver interface {
	Resolve(code string) catalog.Configuration
	ResolveBusiness(code string) catalog.Configuration
	Countries() []string
}

type selection interface {
	Select(ctx context.Context, code string) (catalog.Configuration, error)
	Current(ctx context.Context) (catalog.Configuration, error)
}

type locator interface {
	Locate(ctx context.Context) location.Location
	Update(ctx context.Context, c location.Coordinates) error
}

type courierAccount interface {
	Profile(ctx context.Context) (domain.Courier, error)
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (domain.Courier, error)
	SetOnline(ctx context.Context, online bool) error
	Earnings(ctx context.Context) (domain.Earnings, error)
}

type marketplace interface {
	Businesses(ctx context.Context, a domain.Area) ([]domain.Business, error)
	Categories(ctx context.Context, a domain.Area) ([]domain.Category, error)
	Featured(ctx context.Context, a domain.Area) ([]domain.FeaturedItem, error)
}

type credentialStore interface {
	Save(ctx context.Context, token string) (session.Identity, error)
	Load(ctx context.Context) (session.Identity, error)
	Clear(ctx context.Context) error
}

type channel interface {
	Connect(ctx context.Context, mode string) error
	Disconnect()
	Connected() bool
}
