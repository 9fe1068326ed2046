package config

import "time"

const defaultPort = 8080

var defaultUpstream = Upstream{
	APIBaseURL:     "http://localhost:8000/api",
	RealtimeURL:    "ws://localhost:8000/ws/notifications/",
	RealtimeMode:   "courier",
	RelayMode:      "business",
	ReconnectDelay: 5 * time.Second,
	RequestTimeout: 10 * time.Second,
}

var defaultRetry = Retry{
	MaxAttempts: 3,
	BaseDelay:   200 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultThrottle = Throttle{
	Rate:  10,
	Burst: 20,
}

var defaultOffers = Offers{
	DefaultWindow:   60 * time.Second,
	TickInterval:    time.Second,
	RefreshInterval: 30 * time.Second,
}

var defaultState = State{
	Backend: "memory",
	Redis:   Redis{Addr: "localhost:6379", KeyPrefix: "courier:"},
	DB: DB{
		Host: "127.0.0.1",
		Port: "5432",
		User: "courier",
		Pass: "courier",
		Name: "courier_state",
	},
}

var defaultLocation = Location{
	City:      "Accra",
	Country:   "GH",
	Address:   "Independence Avenue, Accra",
	Latitude:  5.6037,
	Longitude: -0.1870,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       20,
	Burst:      40,
	TTL:        10 * time.Minute,
	MaxBuckets: 1024,
}

const defaultGuardLimit = 3

const defaultNATSSubject = "courier.events"

// DefaultPort returns the default local API port.
func DefaultPort() int { return defaultPort }

// DefaultUpstream returns the default backend endpoints.
func DefaultUpstream() Upstream { return defaultUpstream }

// DefaultOffers returns the default offer countdown settings.
func DefaultOffers() Offers { return defaultOffers }

// DefaultLocation returns the fallback location used when positioning fails.
func DefaultLocation() Location { return defaultLocation }
