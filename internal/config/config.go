package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores courier agent settings.
type Config struct {
	Port       int
	Dev        bool
	Upstream   Upstream
	Retry      Retry
	Throttle   Throttle
	Offers     Offers
	State      State
	Location   Location
	RateLimit  RateLimit
	NATS       NATS
	Pprof      Pprof
	GuardLimit int
}

// Upstream describes the backend REST API and the realtime channel.
type Upstream struct {
	APIBaseURL     string
	RealtimeURL    string
	RealtimeMode   string
	RelayMode      string
	ReconnectDelay time.Duration
	RequestTimeout time.Duration
}

// Retry configures retries of idempotent backend reads.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Throttle configures the outbound request token bucket.
type Throttle struct {
	Rate  float64
	Burst int
}

// Offers configures the acceptance countdown.
type Offers struct {
	DefaultWindow   time.Duration
	TickInterval    time.Duration
	RefreshInterval time.Duration
}

// State selects the key-value backend.
type State struct {
	Backend string // memory | redis | postgres
	Redis   Redis
	DB      DB
}

// Redis connection settings.
type Redis struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// DB stores postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Location is the fallback position.
type Location struct {
	City      string
	Country   string
	Address   string
	Latitude  float64
	Longitude float64
}

// RateLimit configures the local API limiter.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// NATS publisher settings. Empty URL disables publishing.
type NATS struct {
	URL     string
	Subject string
}

// Pprof debug server settings. Empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	return LoadArgs(pflag.CommandLine, os.Args[1:])
}

// LoadArgs is Load with an explicit flag set and arguments.
func LoadArgs(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "local API port")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "development mode (debug logs)")
	fs.StringVar(&cfg.Upstream.APIBaseURL, "api", cfg.Upstream.APIBaseURL, "backend REST base URL")
	fs.StringVar(&cfg.Upstream.RealtimeURL, "realtime", cfg.Upstream.RealtimeURL, "realtime channel URL")
	fs.StringVar(&cfg.Upstream.RealtimeMode, "mode", cfg.Upstream.RealtimeMode, "realtime connection mode")
	fs.StringVar(&cfg.Upstream.RelayMode, "relay-mode", cfg.Upstream.RelayMode, "realtime mode of the relay worker")
	fs.StringVar(&cfg.State.Backend, "state", cfg.State.Backend, "state backend: memory, redis or postgres")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Port:       defaultPort,
		Upstream:   defaultUpstream,
		Retry:      defaultRetry,
		Throttle:   defaultThrottle,
		Offers:     defaultOffers,
		State:      defaultState,
		Location:   defaultLocation,
		RateLimit:  defaultRateLimit,
		NATS:       NATS{Subject: defaultNATSSubject},
		GuardLimit: defaultGuardLimit,
	}

	var errs []string
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	collect(envInt("PORT", &cfg.Port))
	cfg.Dev = strings.EqualFold(os.Getenv("APP_ENV"), "development")

	envString("API_BASE_URL", &cfg.Upstream.APIBaseURL)
	envString("REALTIME_URL", &cfg.Upstream.RealtimeURL)
	envString("REALTIME_MODE", &cfg.Upstream.RealtimeMode)
	envString("REALTIME_RELAY_MODE", &cfg.Upstream.RelayMode)
	collect(envDuration("REALTIME_RECONNECT_DELAY", &cfg.Upstream.ReconnectDelay))
	collect(envDuration("API_REQUEST_TIMEOUT", &cfg.Upstream.RequestTimeout))

	collect(envInt("API_RETRY_ATTEMPTS", &cfg.Retry.MaxAttempts))
	collect(envDuration("API_RETRY_BASE_DELAY", &cfg.Retry.BaseDelay))
	collect(envDuration("API_RETRY_MAX_DELAY", &cfg.Retry.MaxDelay))
	collect(envFloat("API_THROTTLE_RATE", &cfg.Throttle.Rate))
	collect(envInt("API_THROTTLE_BURST", &cfg.Throttle.Burst))

	collect(envDuration("OFFER_DEFAULT_WINDOW", &cfg.Offers.DefaultWindow))
	collect(envDuration("OFFER_REFRESH_INTERVAL", &cfg.Offers.RefreshInterval))

	envString("STATE_BACKEND", &cfg.State.Backend)
	envString("REDIS_ADDR", &cfg.State.Redis.Addr)
	envString("REDIS_PASSWORD", &cfg.State.Redis.Password)
	collect(envInt("REDIS_DB", &cfg.State.Redis.DB))
	envString("POSTGRES_HOST", &cfg.State.DB.Host)
	envString("POSTGRES_PORT", &cfg.State.DB.Port)
	envString("POSTGRES_USER", &cfg.State.DB.User)
	envString("POSTGRES_PASSWORD", &cfg.State.DB.Pass)
	envString("POSTGRES_DB", &cfg.State.DB.Name)
	if _, err := strconv.Atoi(cfg.State.DB.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid POSTGRES_PORT %q", cfg.State.DB.Port))
	}

	envString("FALLBACK_CITY", &cfg.Location.City)
	envString("FALLBACK_COUNTRY", &cfg.Location.Country)
	collect(envFloat("FALLBACK_LAT", &cfg.Location.Latitude))
	collect(envFloat("FALLBACK_LNG", &cfg.Location.Longitude))

	collect(envBool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled))
	collect(envFloat("RATE_LIMIT_RATE", &cfg.RateLimit.Rate))
	collect(envInt("RATE_LIMIT_BURST", &cfg.RateLimit.Burst))

	envString("NATS_URL", &cfg.NATS.URL)
	envString("NATS_SUBJECT", &cfg.NATS.Subject)

	envString("PPROF_ADDR", &cfg.Pprof.Addr)
	envString("PPROF_USER", &cfg.Pprof.User)
	envString("PPROF_PASS", &cfg.Pprof.Pass)

	collect(envInt("AUTH_GUARD_LIMIT", &cfg.GuardLimit))

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.State.Backend {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("invalid state backend: %q", c.State.Backend)
	}
	if c.Upstream.ReconnectDelay <= 0 {
		return fmt.Errorf("invalid reconnect delay: %s", c.Upstream.ReconnectDelay)
	}
	if c.Offers.DefaultWindow < time.Second {
		return fmt.Errorf("invalid offer window: %s", c.Offers.DefaultWindow)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("invalid retry attempts: %d", c.Retry.MaxAttempts)
	}
	if c.GuardLimit < 1 {
		return fmt.Errorf("invalid auth guard limit: %d", c.GuardLimit)
	}
	return nil
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q", key, v)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q", key, v)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q", key, v)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q", key, v)
	}
	*dst = d
	return nil
}
