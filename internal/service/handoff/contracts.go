//go:generate mockgen -source=contracts.go -destination=handoff_mocks_test.go -package=handoff
package handoff

import (
	"context"

	"courier-companion/internal/domain"
)

type pinVerifier interface {
	VerifyPin(ctx context.Context, phase domain.Phase, id, pin string) (bool, error)
}

type tracker interface {
	Get(id string) (domain.ActiveDelivery, bool)
	Advance(id string, to domain.DeliveryStatus) (domain.ActiveDelivery, error)
}
