package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected local API requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected local API requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of backend retry attempts
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed against the backend API",
	})
}

// NewOfferOutcomesTotal counts how offers left the Available list.
func NewOfferOutcomesTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offer_outcomes_total",
		Help: "Offers leaving the available list by outcome",
	}, []string{"outcome"})
}

// NewPinAttemptsTotal counts PIN submissions by phase and result.
func NewPinAttemptsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pin_attempts_total",
		Help: "PIN verification submissions by handoff phase and result",
	}, []string{"phase", "result"})
}

// NewRealtimeReconnectsTotal counts scheduled realtime reconnect attempts.
func NewRealtimeReconnectsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_reconnects_total",
		Help: "Total number of scheduled realtime channel reconnects",
	})
}

// NewRealtimeEventsTotal counts received realtime envelopes by type; malformed ones use type "malformed".
func NewRealtimeEventsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_total",
		Help: "Realtime envelopes received by type",
	}, []string{"type"})
}

// Set groups the agent's collectors so they can be registered at once.
type Set struct {
	RateLimitExceeded prometheus.Counter
	GatewayRetries    prometheus.Counter
	OfferOutcomes     *prometheus.CounterVec
	PinAttempts       *prometheus.CounterVec
	RealtimeReconnect prometheus.Counter
	RealtimeEvents    *prometheus.CounterVec
}

// NewSet creates every collector and registers them on reg.
func NewSet(reg prometheus.Registerer) (*Set, error) {
	s := &Set{
		RateLimitExceeded: NewRateLimitExceededTotal(),
		GatewayRetries:    NewGatewayRetriesTotal(),
		OfferOutcomes:     NewOfferOutcomesTotal(),
		PinAttempts:       NewPinAttemptsTotal(),
		RealtimeReconnect: NewRealtimeReconnectsTotal(),
		RealtimeEvents:    NewRealtimeEventsTotal(),
	}
	for _, c := range []prometheus.Collector{
		s.RateLimitExceeded, s.GatewayRetries, s.OfferOutcomes,
		s.PinAttempts, s.RealtimeReconnect, s.RealtimeEvents,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}
