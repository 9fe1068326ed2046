package realtime

import (
	"fmt"
	"sync"

	"courier-companion/internal/logx"
)

// Listener receives published events.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}

// Bus fans events out to listeners registered per event name. It does not
// know about any transport.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string][]subscription
	logger logx.Logger
}

// NewBus creates an empty Bus.
func NewBus(logger logx.Logger) *Bus {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Bus{subs: make(map[string][]subscription), logger: logger}
}

// Subscribe registers fn for events named name and returns its handle.
func (b *Bus) Subscribe(name string, fn Listener) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[name] = append(b.subs[name], subscription{id: b.nextID, fn: fn})
	return b.nextID
}

// Unsubscribe removes the listener with handle id. Unknown handles are ignored.
func (b *Bus) Unsubscribe(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[name]
	for i, s := range list {
		if s.id == id {
			next := make([]subscription, 0, len(list)-1)
			next = append(next, list[:i]...)
			b.subs[name] = append(next, list[i+1:]...)
			break
		}
	}
	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}

// On subscribes fn and returns a function that unsubscribes it.
func (b *Bus) On(name string, fn Listener) func() {
	id := b.Subscribe(name, fn)
	var once sync.Once
	return func() { once.Do(func() { b.Unsubscribe(name, id) }) }
}

// Publish delivers ev to the listeners of ev.Name in registration order.
// A panicking listener is logged and does not stop the others.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	list := b.subs[ev.Name]
	b.mu.Unlock()

	for _, s := range list {
		b.invoke(s, ev)
	}
}

func (b *Bus) invoke(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("realtime listener panicked",
				logx.String("event", ev.Name),
				logx.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	s.fn(ev)
}
