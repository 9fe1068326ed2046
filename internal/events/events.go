// Package events publishes agent lifecycle events for other processes.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Aggregates
const (
	AggregateOffer    = "offer"
	AggregateDelivery = "delivery"
	AggregateRealtime = "realtime"
)

// Event types
const (
	EventOfferShown        = "offer.shown"
	EventOfferExpired      = "offer.expired"
	EventOfferAccepted     = "offer.accepted"
	EventOfferSuperseded   = "offer.superseded"
	EventPickupConfirmed   = "handoff.pickup_confirmed"
	EventDeliveryConfirmed = "handoff.delivery_confirmed"
	EventPinRejected       = "handoff.pin_rejected"
	EventStatusChanged     = "delivery.status_changed"
)

// Publisher sends events somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Event is one published fact.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewEvent builds an event with a fresh id.
func NewEvent(eventType, aggregateType, aggregateID string, payload any, occurredAt time.Time) Event {
	data, _ := json.Marshal(payload)
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       data,
		OccurredAt:    occurredAt,
	}
}

// RealtimeType is the event type used when relaying a realtime envelope.
func RealtimeType(envelopeType string) string {
	return AggregateRealtime + "." + envelopeType
}
