package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := NewEvent(EventOfferAccepted, AggregateOffer, "d-1", map[string]string{"courier_id": "c-1"}, at)

	require.NotEmpty(t, ev.ID)
	require.Equal(t, "offer.accepted", ev.Type)
	require.Equal(t, "d-1", ev.AggregateID)
	require.JSONEq(t, `{"courier_id":"c-1"}`, string(ev.Payload))

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"aggregate_type":"offer"`)

	other := NewEvent(EventOfferAccepted, AggregateOffer, "d-1", nil, at)
	require.NotEqual(t, ev.ID, other.ID)
}

func TestRealtimeType(t *testing.T) {
	require.Equal(t, "realtime.status_update", RealtimeType("status_update"))
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	require.NoError(t, p.Publish(context.Background(), Event{}))
	require.NoError(t, p.Close())
}
