// Package deliveries keeps the courier's active and completed deliveries.
package deliveries

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
	"courier-companion/internal/events"
	"courier-companion/internal/gateway"
	"courier-companion/internal/logx"
	"courier-companion/internal/realtime"
)

// historyLimit caps the completed list kept in memory.
const historyLimit = 200

// List is one of the two delivery lists as displayed.
type List struct {
	Deliveries  []domain.ActiveDelivery `json:"deliveries"`
	Stale       bool                    `json:"stale"`
	RefreshedAt time.Time               `json:"refreshed_at"`
}

type listState struct {
	stale       bool
	refreshedAt time.Time
}

// Feed holds the active list and the history.
type Feed struct {
	api    courierAPI
	pub    events.Publisher
	logger logx.Logger
	now    func() time.Time

	mu        sync.Mutex
	active    map[string]*domain.ActiveDelivery
	order     []string
	history   []domain.ActiveDelivery
	activeSt  listState
	historySt listState
}

// NewFeed creates an empty Feed. pub may be nil.
func NewFeed(api courierAPI, pub events.Publisher, logger logx.Logger) *Feed {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Feed{
		api:    api,
		pub:    pub,
		logger: logger.With(logx.Component("deliveries")),
		now:    time.Now,
		active: make(map[string]*domain.ActiveDelivery),
	}
}

// Add puts a delivery on the active list, or into history when it is terminal.
func (f *Feed) Add(d domain.ActiveDelivery) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putLocked(d)
}

func (f *Feed) putLocked(d domain.ActiveDelivery) {
	if d.Status.Terminal() {
		f.removeLocked(d.ID)
		f.archiveLocked(d)
		return
	}
	if cur, ok := f.active[d.ID]; ok {
		*cur = d
		return
	}
	cp := d
	f.active[d.ID] = &cp
	f.order = append(f.order, d.ID)
}

func (f *Feed) removeLocked(id string) {
	if _, ok := f.active[id]; !ok {
		return
	}
	delete(f.active, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

func (f *Feed) archiveLocked(d domain.ActiveDelivery) {
	for i := range f.history {
		if f.history[i].ID == d.ID {
			f.history[i] = d
			return
		}
	}
	f.history = append([]domain.ActiveDelivery{d}, f.history...)
	if len(f.history) > historyLimit {
		f.history = f.history[:historyLimit]
	}
}

// Get returns an active delivery.
func (f *Feed) Get(id string) (domain.ActiveDelivery, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.active[id]
	if !ok {
		return domain.ActiveDelivery{}, false
	}
	return *d, true
}

// Advance moves an active delivery along the status machine. Terminal
// deliveries move to history and can no longer change.
func (f *Feed) Advance(id string, to domain.DeliveryStatus) (domain.ActiveDelivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.advanceLocked(id, to)
}

func (f *Feed) advanceLocked(id string, to domain.DeliveryStatus) (domain.ActiveDelivery, error) {
	d, ok := f.active[id]
	if !ok {
		return domain.ActiveDelivery{}, apperr.New(apperr.KindNotFound, "deliveries.advance", "delivery "+id+" is not active")
	}
	if err := d.Advance(to, f.now()); err != nil {
		return *d, err
	}
	out := *d
	if to.Terminal() {
		f.removeLocked(id)
		f.archiveLocked(out)
	}
	return out, nil
}

// Active returns the active list in acceptance order.
func (f *Feed) Active() List {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := List{Deliveries: make([]domain.ActiveDelivery, 0, len(f.order)), Stale: f.activeSt.stale, RefreshedAt: f.activeSt.refreshedAt}
	for _, id := range f.order {
		out.Deliveries = append(out.Deliveries, *f.active[id])
	}
	return out
}

// Completed returns the history, newest first.
func (f *Feed) Completed() List {
	f.mu.Lock()
	defer f.mu.Unlock()
	return List{
		Deliveries:  append([]domain.ActiveDelivery(nil), f.history...),
		Stale:       f.historySt.stale,
		RefreshedAt: f.historySt.refreshedAt,
	}
}

// RefreshActive replaces the active list with the server's. On failure the
// current list is kept and marked stale.
func (f *Feed) RefreshActive(ctx context.Context) error {
	list, err := f.api.Deliveries(ctx, gateway.ListingActive, "")
	if err != nil {
		f.mu.Lock()
		f.activeSt.stale = true
		f.mu.Unlock()
		return fmt.Errorf("refresh active deliveries: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = make(map[string]*domain.ActiveDelivery, len(list))
	f.order = f.order[:0]
	for _, d := range list {
		f.putLocked(d)
	}
	f.activeSt = listState{refreshedAt: f.now()}
	return nil
}

// RefreshCompleted replaces the history with the server's.
func (f *Feed) RefreshCompleted(ctx context.Context) error {
	list, err := f.api.Deliveries(ctx, gateway.ListingCompleted, "")
	if err != nil {
		f.mu.Lock()
		f.historySt.stale = true
		f.mu.Unlock()
		return fmt.Errorf("refresh completed deliveries: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(list) > historyLimit {
		list = list[:historyLimit]
	}
	f.history = list
	f.historySt = listState{refreshedAt: f.now()}
	return nil
}

// Apply advances the delivery a realtime status_update refers to. Unknown
// deliveries and statuses are ignored; transitions the machine forbids are
// logged and dropped.
func (f *Feed) Apply(ctx context.Context, su realtime.StatusUpdate) {
	to, ok := domain.ParseStatus(su.NewStatus)
	if !ok {
		f.logger.Debug("ignoring unknown status", logx.String("status", su.NewStatus))
		return
	}

	f.mu.Lock()
	d, ok := f.active[su.Target()]
	if !ok || d.Status == to {
		f.mu.Unlock()
		return
	}
	from := d.Status
	_, err := f.advanceLocked(su.Target(), to)
	f.mu.Unlock()

	if err != nil {
		f.logger.Warn("ignoring status update",
			logx.String("delivery_id", su.Target()),
			logx.String("from", string(from)),
			logx.String("to", string(to)),
			logx.Err(err),
		)
		return
	}
	f.publish(ctx, su.Target(), from, to)
}

// SetStatus reports an explicit status change. It is checked against the
// status machine before the backend is called.
func (f *Feed) SetStatus(ctx context.Context, id string, to domain.DeliveryStatus) (domain.ActiveDelivery, error) {
	const op = "deliveries.set_status"
	if !to.Valid() {
		return domain.ActiveDelivery{}, apperr.Invalid(op, "unknown status "+string(to))
	}
	cur, ok := f.Get(id)
	if !ok {
		return domain.ActiveDelivery{}, apperr.New(apperr.KindNotFound, op, "delivery "+id+" is not active")
	}
	if !domain.CanTransition(cur.Status, to) {
		return domain.ActiveDelivery{}, &apperr.Error{
			Kind:    apperr.KindValidation,
			Op:      op,
			Message: fmt.Sprintf("%s -> %s", cur.Status, to),
			Err:     domain.ErrInvalidTransition,
		}
	}

	if err := f.api.UpdateStatus(ctx, id, to); err != nil {
		return domain.ActiveDelivery{}, fmt.Errorf("update status of %s: %w", id, err)
	}

	d, err := f.Advance(id, to)
	if err != nil && !errors.Is(err, domain.ErrInvalidTransition) {
		return domain.ActiveDelivery{}, err
	}
	f.publish(ctx, id, cur.Status, to)
	return d, nil
}

func (f *Feed) publish(ctx context.Context, id string, from, to domain.DeliveryStatus) {
	ev := events.NewEvent(events.EventStatusChanged, events.AggregateDelivery, id,
		map[string]string{"delivery_id": id, "from": string(from), "to": string(to)}, f.now())
	if err := f.pub.Publish(ctx, ev); err != nil {
		f.logger.Warn("publish status change", logx.Err(err))
	}
}
