//go:generate mockgen -source=contracts.go -destination=deliveries_mocks_test.go -package=deliveries
package deliveries

import (
	"context"

	"courier-companion/internal/domain"
	"courier-companion/internal/gateway"
)

type courierAPI interface {
	Deliveries(ctx context.Context, listing gateway.Listing, status domain.DeliveryStatus) ([]domain.ActiveDelivery, error)
	UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus) error
}
