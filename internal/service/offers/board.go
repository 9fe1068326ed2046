// Package offers runs the acceptance countdowns for delivery offers shown
// to the courier.
package offers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
	"courier-companion/internal/events"
	"courier-companion/internal/logx"
	"courier-companion/internal/realtime"
)

// DefaultWindow is the countdown for offers without a server expiry.
const DefaultWindow = 60 * time.Second

// Local bus event names.
const (
	EventShown      = "offer_shown"
	EventExpired    = "offer_expired"
	EventAccepted   = "offer_accepted"
	EventSuperseded = "offer_superseded"
	EventNotice     = "notice"
)

// NoticeTaken is shown when another courier claimed the offer first.
const NoticeTaken = "This delivery was taken by another courier"

// ErrAcceptInFlight rejects a second accept while the first is pending.
var ErrAcceptInFlight = errors.New("accept already in progress")

// Outcome labels of the offer_outcomes_total counter.
const (
	outcomeAccepted   = "accepted"
	outcomeExpired    = "expired"
	outcomeSuperseded = "superseded"
	outcomeConflict   = "conflict"
	outcomeFailed     = "failed"
	outcomeClosed     = "closed"
)

type countdown struct {
	offer     domain.Offer
	remaining int
}

// View is an offer as displayed.
type View struct {
	Offer     domain.Offer `json:"offer"`
	Remaining int          `json:"remaining_seconds"`
	Accepting bool         `json:"accepting"`
}

// Snapshot is the Available list.
type Snapshot struct {
	Offers      []View    `json:"offers"`
	Stale       bool      `json:"stale"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Options configures Board.
type Options struct {
	DefaultWindow time.Duration
	Outcomes      *prometheus.CounterVec
}

// Board holds every displayed offer and its countdown. One Tick advances all
// countdowns; every removal goes through cancelLocked.
type Board struct {
	api      courierAPI
	self     identity
	sink     activeSink
	bus      localBus
	pub      events.Publisher
	logger   logx.Logger
	window   time.Duration
	outcomes *prometheus.CounterVec
	now      func() time.Time

	mu          sync.Mutex
	countdowns  map[string]*countdown
	order       []string
	inFlight    map[string]bool
	removed     map[string]bool // ids that left the board while the server may still list them
	stale       bool
	refreshedAt time.Time
}

// New creates a Board. pub may be nil.
func New(opts Options, api courierAPI, self identity, sink activeSink, bus localBus, pub events.Publisher, logger logx.Logger) *Board {
	if opts.DefaultWindow <= 0 {
		opts.DefaultWindow = DefaultWindow
	}
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Board{
		api:        api,
		self:       self,
		sink:       sink,
		bus:        bus,
		pub:        pub,
		logger:     logger.With(logx.Component("offers")),
		window:     opts.DefaultWindow,
		outcomes:   opts.Outcomes,
		now:        time.Now,
		countdowns: make(map[string]*countdown),
		inFlight:   make(map[string]bool),
		removed:    make(map[string]bool),
	}
}

// Show displays an offer and starts its countdown. An offer already on the
// board keeps its countdown, and one that already left the board is not shown
// again; Show then reports false.
func (b *Board) Show(o domain.Offer) bool {
	b.mu.Lock()
	ok := b.showLocked(o)
	b.mu.Unlock()
	if ok {
		b.emit(context.Background(), EventShown, events.EventOfferShown, o.ID)
	}
	return ok
}

func (b *Board) showLocked(o domain.Offer) bool {
	if o.ID == "" {
		return false
	}
	if _, ok := b.countdowns[o.ID]; ok || b.removed[o.ID] {
		return false
	}
	b.countdowns[o.ID] = &countdown{offer: o, remaining: b.seed(o)}
	b.order = append(b.order, o.ID)
	return true
}

// seed is the whole seconds left before the offer expires, never negative.
func (b *Board) seed(o domain.Offer) int {
	if o.ExpiresAt == nil {
		return int(b.window / time.Second)
	}
	left := o.ExpiresAt.Sub(b.now()).Seconds()
	if left <= 0 {
		return 0
	}
	return int(math.Floor(left))
}

// Tick advances every countdown by one second and removes the ones that reach
// zero. An offer with a pending accept stays at one second until it resolves.
func (b *Board) Tick() {
	var expired []string
	b.mu.Lock()
	for _, id := range append([]string(nil), b.order...) {
		c := b.countdowns[id]
		if b.inFlight[id] {
			c.remaining = max(c.remaining-1, 1)
			continue
		}
		c.remaining--
		if c.remaining <= 0 {
			b.cancelLocked(id)
			expired = append(expired, id)
		}
	}
	b.mu.Unlock()

	for _, id := range expired {
		b.count(outcomeExpired)
		b.emit(context.Background(), EventExpired, events.EventOfferExpired, id)
	}
}

// cancelLocked stops the countdown of id and drops the offer. It is the only
// way an offer leaves the board; the id is remembered so Refresh cannot bring
// it back.
func (b *Board) cancelLocked(id string) (domain.Offer, bool) {
	c, ok := b.countdowns[id]
	if !ok {
		return domain.Offer{}, false
	}
	delete(b.countdowns, id)
	b.removed[id] = true
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return c.offer, true
}

// Accept claims offer id. On success the delivery is handed to the active
// list with status assigned. A conflict removes the offer and refreshes the
// list; other failures leave the offer and its countdown untouched.
func (b *Board) Accept(ctx context.Context, id string) (domain.ActiveDelivery, error) {
	const op = "offers.accept"

	b.mu.Lock()
	c, ok := b.countdowns[id]
	if !ok || c.remaining <= 0 {
		b.mu.Unlock()
		return domain.ActiveDelivery{}, apperr.New(apperr.KindNotFound, op, "offer no longer available")
	}
	if b.inFlight[id] {
		b.mu.Unlock()
		return domain.ActiveDelivery{}, ErrAcceptInFlight
	}
	b.inFlight[id] = true
	offer := c.offer
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.inFlight, id)
		b.mu.Unlock()
	}()

	err := b.api.Accept(ctx, id)
	switch {
	case err == nil:
		b.mu.Lock()
		b.cancelLocked(id)
		b.mu.Unlock()

		d := domain.NewActiveDelivery(offer, b.now())
		b.sink.Add(d)
		b.count(outcomeAccepted)
		b.emit(ctx, EventAccepted, events.EventOfferAccepted, id)
		return d, nil

	case errors.Is(err, apperr.ErrConflict):
		b.mu.Lock()
		b.cancelLocked(id)
		b.mu.Unlock()

		b.count(outcomeConflict)
		b.emit(ctx, EventSuperseded, events.EventOfferSuperseded, id)
		b.notify(NoticeTaken)
		if rerr := b.Refresh(ctx); rerr != nil {
			b.logger.Warn("refresh after conflict", logx.Err(rerr))
		}
		return domain.ActiveDelivery{}, err

	default:
		b.count(outcomeFailed)
		return domain.ActiveDelivery{}, fmt.Errorf("accept offer %s: %w", id, err)
	}
}

// Supersede removes an offer another courier claimed, whatever its remaining time.
func (b *Board) Supersede(id string) bool {
	b.mu.Lock()
	_, ok := b.cancelLocked(id)
	b.mu.Unlock()
	if ok {
		b.count(outcomeSuperseded)
		b.emit(context.Background(), EventSuperseded, events.EventOfferSuperseded, id)
	}
	return ok
}

// HandleStatusUpdate supersedes the offer a status_update says was assigned
// to someone else.
func (b *Board) HandleStatusUpdate(ctx context.Context, su realtime.StatusUpdate) {
	if su.NewStatus != realtime.StatusCourierAssigned || su.Target() == "" {
		return
	}
	var self string
	if id, err := b.self.Load(ctx); err == nil {
		self = id.CourierID
	}
	if su.ClaimedByOther(self) {
		b.Supersede(su.Target())
	}
}

// Refresh reconciles the board with the server list. Offers that already left
// the board stay gone while the server keeps listing them. On failure the
// current list is kept and marked stale.
func (b *Board) Refresh(ctx context.Context) error {
	list, err := b.api.Available(ctx)
	if err != nil {
		b.mu.Lock()
		b.stale = true
		b.mu.Unlock()
		return fmt.Errorf("refresh offers: %w", err)
	}

	var shown, removed []string
	b.mu.Lock()
	seen := make(map[string]bool, len(list))
	for _, o := range list {
		seen[o.ID] = true
		if b.showLocked(o) {
			shown = append(shown, o.ID)
		}
	}
	for _, id := range append([]string(nil), b.order...) {
		if !seen[id] && !b.inFlight[id] {
			b.cancelLocked(id)
			removed = append(removed, id)
		}
	}
	for id := range b.removed {
		if !seen[id] {
			delete(b.removed, id)
		}
	}
	b.stale = false
	b.refreshedAt = b.now()
	b.mu.Unlock()

	for _, id := range shown {
		b.emit(ctx, EventShown, events.EventOfferShown, id)
	}
	for _, id := range removed {
		b.count(outcomeSuperseded)
		b.emit(ctx, EventSuperseded, events.EventOfferSuperseded, id)
	}
	return nil
}

// Close cancels every countdown.
func (b *Board) Close() {
	b.mu.Lock()
	n := 0
	for _, id := range append([]string(nil), b.order...) {
		if _, ok := b.cancelLocked(id); ok {
			n++
		}
	}
	b.mu.Unlock()
	for i := 0; i < n; i++ {
		b.count(outcomeClosed)
	}
}

// Remaining returns the seconds left for id.
func (b *Board) Remaining(id string) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.countdowns[id]
	if !ok {
		return 0, false
	}
	return c.remaining, true
}

// List returns the offers in display order.
func (b *Board) List() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := Snapshot{Offers: make([]View, 0, len(b.order)), Stale: b.stale, RefreshedAt: b.refreshedAt}
	for _, id := range b.order {
		c := b.countdowns[id]
		out.Offers = append(out.Offers, View{Offer: c.offer, Remaining: c.remaining, Accepting: b.inFlight[id]})
	}
	return out
}

// Run ticks every interval and refreshes every refresh (0 disables polling)
// until ctx is done, then closes the board.
func (b *Board) Run(ctx context.Context, interval, refresh time.Duration) error {
	if interval <= 0 {
		interval = time.Second
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	var poll <-chan time.Time
	if refresh > 0 {
		t := time.NewTicker(refresh)
		defer t.Stop()
		poll = t.C
		b.refreshInBackground(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			b.Close()
			return nil
		case <-tick.C:
			b.Tick()
		case <-poll:
			b.refreshInBackground(ctx)
		}
	}
}

func (b *Board) refreshInBackground(ctx context.Context) {
	if err := b.Refresh(ctx); err != nil && ctx.Err() == nil {
		b.logger.Warn("background offer refresh failed, list is stale", logx.Err(err))
	}
}

func (b *Board) notify(msg string) {
	if b.bus != nil {
		b.bus.Publish(realtime.Event{Name: EventNotice, Message: msg})
	}
}

func (b *Board) emit(ctx context.Context, local, published, id string) {
	payload := map[string]string{"offer_id": id}
	if b.bus != nil {
		data, _ := json.Marshal(payload)
		b.bus.Publish(realtime.Event{Name: local, Data: data})
	}
	ev := events.NewEvent(published, events.AggregateOffer, id, payload, b.now())
	if err := b.pub.Publish(ctx, ev); err != nil {
		b.logger.Warn("publish offer event", logx.String("type", published), logx.Err(err))
	}
}

func (b *Board) count(outcome string) {
	if b.outcomes != nil {
		b.outcomes.WithLabelValues(outcome).Inc()
	}
}
