//go:generate mockgen -source=contracts.go -destination=offers_mocks_test.go -package=offers
package offers

import (
	"context"

	"courier-companion/internal/domain"
	"courier-companion/internal/realtime"
	"courier-companion/internal/session"
)

type courierAPI interface {
	Available(ctx context.Context) ([]domain.Offer, error)
	Accept(ctx context.Context, id string) error
}

type identity interface {
	Load(ctx context.Context) (session.Identity, error)
}

type activeSink interface {
	Add(d domain.ActiveDelivery)
}

type localBus interface {
	Publish(ev realtime.Event)
}
