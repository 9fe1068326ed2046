package domain

import "errors"

// DeliveryStatus is the lifecycle state of an accepted delivery.
type DeliveryStatus string

// List of possible delivery statuses
const (
	StatusAssigned  DeliveryStatus = "assigned"
	StatusPickedUp  DeliveryStatus = "picked_up"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
	StatusCancelled DeliveryStatus = "cancelled"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid delivery status transition")

// transitions lists the allowed next states. Forward-only; terminal states have none.
var transitions = map[DeliveryStatus][]DeliveryStatus{
	StatusAssigned:  {StatusPickedUp, StatusCancelled},
	StatusPickedUp:  {StatusInTransit, StatusDelivered, StatusCancelled},
	StatusInTransit: {StatusDelivered},
}

// Valid checks if the DeliveryStatus is known.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusAssigned, StatusPickedUp, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are possible.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus maps backend status strings, including aliases, onto DeliveryStatus.
func ParseStatus(raw string) (DeliveryStatus, bool) {
	switch raw {
	case "assigned", "accepted", "courier_assigned":
		return StatusAssigned, true
	case "picked_up", "picked-up", "pickup_confirmed":
		return StatusPickedUp, true
	case "in_transit", "in-transit", "on_the_way":
		return StatusInTransit, true
	case "delivered", "completed":
		return StatusDelivered, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	default:
		return "", false
	}
}
