package domain

import (
	"fmt"
	"time"
)

// Stop is one end of a delivery route.
type Stop struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// Offer is a delivery assignment candidate shown to a courier before acceptance.
type Offer struct {
	ID           string
	Pickup       Stop
	Dropoff      Stop
	BusinessName string
	CustomerName string
	DistanceKm   float64
	Earnings     float64
	CreatedAt    time.Time
	// ExpiresAt is set when the server bounds the offer; nil means the default window.
	ExpiresAt *time.Time
}

// ActiveDelivery is a delivery the courier has accepted.
type ActiveDelivery struct {
	ID           string
	Status       DeliveryStatus
	Pickup       Stop
	Dropoff      Stop
	BusinessName string
	CustomerName string
	Earnings     float64
	AcceptedAt   time.Time
	UpdatedAt    time.Time
}

// NewActiveDelivery builds the assigned delivery for an accepted offer.
func NewActiveDelivery(o Offer, now time.Time) ActiveDelivery {
	return ActiveDelivery{
		ID:           o.ID,
		Status:       StatusAssigned,
		Pickup:       o.Pickup,
		Dropoff:      o.Dropoff,
		BusinessName: o.BusinessName,
		CustomerName: o.CustomerName,
		Earnings:     o.Earnings,
		AcceptedAt:   now,
		UpdatedAt:    now,
	}
}

// Advance moves the delivery to the next status if the transition is allowed.
func (d *ActiveDelivery) Advance(to DeliveryStatus, now time.Time) error {
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
	}
	d.Status = to
	d.UpdatedAt = now
	return nil
}

// Phase identifies which handoff step a PIN confirms.
type Phase string

// List of handoff phases
const (
	PhasePickup   Phase = "pickup"
	PhaseDelivery Phase = "delivery"
)

// Valid checks if the Phase is known.
func (p Phase) Valid() bool {
	return p == PhasePickup || p == PhaseDelivery
}
