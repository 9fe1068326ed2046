// Package nats publishes events to a NATS subject.
package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"courier-companion/internal/events"
)

// DefaultSubject is used when none is configured.
const DefaultSubject = "courier.events"

// Publisher publishes JSON encoded events. Each event goes to
// <subject>.<event type> so consumers can filter with wildcards.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// New connects to url.
func New(url, subject string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("courier-agent"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{nc: nc, subject: subject}, nil
}

// Subject returns the subject an event is published on.
func (p *Publisher) Subject(event events.Event) string {
	if event.Type == "" {
		return p.subject
	}
	return p.subject + "." + event.Type
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.Subject(event), data)
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	if p.nc == nil {
		return nil
	}
	err := p.nc.Drain()
	if err != nil {
		p.nc.Close()
	}
	return err
}

var _ events.Publisher = (*Publisher)(nil)
