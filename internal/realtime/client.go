// Package realtime keeps the single push channel to the backend open and
// fans received events out to local listeners.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"courier-companion/internal/logx"
	"courier-companion/internal/session"
)

// ErrNoCredential is returned by Connect when no session credential is stored.
var ErrNoCredential = session.ErrNoCredential

const dialTimeout = 15 * time.Second

// Credentials loads the identity used to authenticate the channel.
type Credentials interface {
	Load(ctx context.Context) (session.Identity, error)
}

type timer interface {
	Stop() bool
}

// Options configures Client.
type Options struct {
	URL            string
	ReconnectDelay time.Duration
	Dev            bool
	Reconnects     prometheus.Counter
	Events         *prometheus.CounterVec
}

// Client is the realtime notification client.
type Client struct {
	url    string
	delay  time.Duration
	dev    bool
	dialer Dialer
	creds  Credentials
	bus    *Bus
	logger logx.Logger

	reconnects prometheus.Counter
	events     *prometheus.CounterVec
	afterFunc  func(time.Duration, func()) timer

	mu        sync.Mutex
	conn      Conn
	gen       uint64
	mode      string
	stopped   bool
	reconnect timer

	writeMu sync.Mutex
}

// NewClient creates a Client publishing to bus.
func NewClient(opts Options, dialer Dialer, creds Credentials, bus *Bus, logger logx.Logger) *Client {
	if logger == nil {
		logger = logx.Nop()
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 5 * time.Second
	}
	return &Client{
		url:        opts.URL,
		delay:      opts.ReconnectDelay,
		dev:        opts.Dev,
		dialer:     dialer,
		creds:      creds,
		bus:        bus,
		logger:     logger.With(logx.Component("realtime")),
		reconnects: opts.Reconnects,
		events:     opts.Events,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

// On registers a listener and returns its unsubscribe function.
func (c *Client) On(name string, fn Listener) func() {
	return c.bus.On(name, fn)
}

// Connected reports whether a channel is open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect opens the channel in mode, replacing any open one. Without a stored
// credential it publishes a warning and returns ErrNoCredential; no reconnect
// is scheduled then. A failed dial counts as a close.
func (c *Client) Connect(ctx context.Context, mode string) error {
	c.mu.Lock()
	c.mode = mode
	c.stopped = false
	c.stopReconnectLocked()
	old := c.detachLocked()
	c.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	id, err := c.creds.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoCredential) {
			c.logger.Warn("no session credential, realtime disabled")
			c.bus.Publish(Event{Name: EventWarning, Message: "no session credential"})
			return ErrNoCredential
		}
		return fmt.Errorf("realtime: load credential: %w", err)
	}

	endpoint, err := c.endpoint(id.Token, mode)
	if err != nil {
		return err
	}

	conn, err := c.dialer.Dial(ctx, endpoint)
	if err != nil {
		c.logger.Warn("realtime dial failed", logx.String("mode", mode), logx.Err(err))
		c.mu.Lock()
		if !c.stopped {
			c.scheduleReconnectLocked()
		}
		c.mu.Unlock()
		c.bus.Publish(Event{Name: EventDisconnected})
		return fmt.Errorf("realtime: dial: %w", err)
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	prev := c.conn
	c.gen++
	gen := c.gen
	c.conn = conn
	c.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	c.logger.Info("realtime connected", logx.String("mode", mode))
	c.bus.Publish(Event{Name: EventConnected})
	go c.readLoop(conn, gen)
	return nil
}

// Disconnect cancels any pending reconnect and closes the channel for good.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.stopped = true
	c.stopReconnectLocked()
	conn := c.detachLocked()
	c.mu.Unlock()

	if conn == nil {
		return
	}
	_ = conn.Close()
	c.bus.Publish(Event{Name: EventDisconnected})
}

// Send writes an envelope to the open channel. It reports false when the
// channel is not open or the write fails.
func (c *Client) Send(typ string, data any) bool {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return false
	}

	raw, err := json.Marshal(struct {
		Type string `json:"type"`
		Data any    `json:"data,omitempty"`
	}{Type: typ, Data: data})
	if err != nil {
		c.logger.Error("encode realtime message", logx.String("type", typ), logx.Err(err))
		return false
	}

	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, raw)
	c.writeMu.Unlock()
	if err != nil {
		c.logger.Warn("realtime write failed", logx.String("type", typ), logx.Err(err))
		return false
	}
	return true
}

func (c *Client) endpoint(token, mode string) (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("realtime: invalid url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	if mode != "" {
		q.Set("mode", mode)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// detachLocked forgets the current channel so its read loop will not
// reconnect when it ends.
func (c *Client) detachLocked() Conn {
	conn := c.conn
	c.conn = nil
	c.gen++
	return conn
}

func (c *Client) stopReconnectLocked() {
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
}

// scheduleReconnectLocked keeps at most one pending reconnect.
func (c *Client) scheduleReconnectLocked() {
	if c.reconnect != nil {
		return
	}
	if c.reconnects != nil {
		c.reconnects.Inc()
	}
	var t timer
	t = c.afterFunc(c.delay, func() {
		c.mu.Lock()
		if c.reconnect != t || c.stopped {
			c.mu.Unlock()
			return
		}
		c.reconnect = nil
		mode := c.mode
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		if err := c.Connect(ctx, mode); err != nil {
			c.logger.Warn("realtime reconnect failed", logx.Err(err))
		}
	})
	c.reconnect = t
}

func (c *Client) readLoop(conn Conn, gen uint64) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.closed(gen, err)
			return
		}
		c.dispatch(msg)
	}
}

// closed handles the end of the channel identified by gen. Channels already
// replaced or closed on purpose are ignored.
func (c *Client) closed(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen || c.conn == nil {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	if !c.stopped {
		c.scheduleReconnectLocked()
	}
	c.mu.Unlock()

	if c.dev && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		c.logger.Warn("realtime channel closed", logx.Err(err))
	}
	c.bus.Publish(Event{Name: EventDisconnected})
}

func (c *Client) dispatch(msg []byte) {
	var env envelope
	if err := json.Unmarshal(msg, &env); err != nil || env.Type == "" {
		c.count("malformed")
		if c.dev {
			c.logger.Debug("dropped malformed realtime envelope", logx.Int("size", len(msg)))
		}
		return
	}

	if !Recognized(env.Type) {
		c.count("other")
		c.bus.Publish(Event{Name: EventMessage, Type: env.Type, Data: env.Data})
		return
	}
	c.count(env.Type)

	ev := Event{Name: env.Type, Type: env.Type, Data: env.Data}
	switch env.Type {
	case TypeConnectionEstablished:
		c.logger.Info("realtime session established")
	case TypeStatusUpdate:
		su := ParseStatusUpdate(env.Data)
		ev.Status = &su
	}
	c.bus.Publish(ev)
}

func (c *Client) count(label string) {
	if c.events != nil {
		c.events.WithLabelValues(label).Inc()
	}
}
