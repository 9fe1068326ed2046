package realtime

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Local lifecycle events.
const (
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
	EventWarning      = "warning"
	EventMessage      = "message"
)

// Server envelope types.
const (
	TypeConnectionEstablished = "connection_established"
	TypeOrderNotification     = "order_notification"
	TypeDeliveryNotification  = "delivery_notification"
	TypeOrderUpdate           = "order_update"
	TypeStatusUpdate          = "status_update"
	TypeBusinessStatusUpdate  = "business_status_update"
)

// StatusCourierAssigned is the new_status announcing that a courier claimed a delivery.
const StatusCourierAssigned = "courier_assigned"

var recognized = map[string]bool{
	TypeConnectionEstablished: true,
	TypeOrderNotification:     true,
	TypeDeliveryNotification:  true,
	TypeOrderUpdate:           true,
	TypeStatusUpdate:          true,
	TypeBusinessStatusUpdate:  true,
}

// Recognized reports whether t is a server envelope type with a dedicated handler.
func Recognized(t string) bool { return recognized[t] }

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is what listeners receive. Type holds the raw envelope type for
// forwarded messages; Status is set for status_update.
type Event struct {
	Name    string          `json:"name"`
	Type    string          `json:"type,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Status  *StatusUpdate   `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
}

// StatusUpdate is the normalized payload of a status_update envelope.
type StatusUpdate struct {
	DeliveryID string `json:"delivery_id,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
	NewStatus  string `json:"new_status"`
	CourierID  string `json:"courier_id,omitempty"`
}

// Target is the id the update refers to, preferring the delivery id.
func (s StatusUpdate) Target() string {
	if s.DeliveryID != "" {
		return s.DeliveryID
	}
	return s.OrderID
}

// ClaimedByOther reports whether the update says a courier other than self took the delivery.
func (s StatusUpdate) ClaimedByOther(self string) bool {
	return s.NewStatus == StatusCourierAssigned && s.CourierID != "" && s.CourierID != self
}

// ParseStatusUpdate reads a status_update payload. The server nests ids
// inconsistently, so several paths are tried.
func ParseStatusUpdate(data []byte) StatusUpdate {
	r := gjson.ParseBytes(data)
	return StatusUpdate{
		DeliveryID: first(r, "delivery_id", "delivery.id", "deliveryId"),
		OrderID:    first(r, "order_id", "order.id", "orderId"),
		NewStatus:  first(r, "new_status", "status", "newStatus"),
		CourierID:  first(r, "courier_id", "courier.id", "assigned_courier_id", "courierId"),
	}
}

func first(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null && v.Type != gjson.JSON {
			if s := v.String(); s != "" {
				return s
			}
		}
	}
	return ""
}
