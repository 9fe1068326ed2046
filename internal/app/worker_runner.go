package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/dig"

	"courier-companion/internal/config"
	"courier-companion/internal/events"
	"courier-companion/internal/logx"
	"courier-companion/internal/realtime"
)

// WorkerRunner runs the realtime relay.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun relays until the container context is done.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

type workerIn struct {
	dig.In

	Ctx       context.Context
	Config    *config.Config
	Logger    logx.Logger
	Closer    stateCloser
	Publisher events.Publisher
	Bus       *realtime.Bus
	Realtime  *realtime.Client
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(in workerIn) error {
	if in.Realtime == nil || in.Bus == nil {
		return fmt.Errorf("realtime client is nil: worker container misconfigured")
	}
	logger := in.Logger.With(logx.Component("relay"))
	defer closeResources(in.Publisher, in.Closer, logger)

	unsubscribe := subscribeRelay(in.Ctx, in.Bus, in.Publisher, logger, time.Now)
	defer unsubscribe()

	mode := in.Config.Upstream.RelayMode
	logger.Info("courier-worker started", logx.String("mode", mode))
	switch err := in.Realtime.Connect(in.Ctx, mode); {
	case errors.Is(err, realtime.ErrNoCredential):
		// no reconnect is scheduled without a credential
		return err
	case err != nil:
		logger.Warn("realtime connect failed, will retry", logx.Err(err))
	}

	<-in.Ctx.Done()
	in.Realtime.Disconnect()
	return in.Ctx.Err()
}

// relayedTypes are the envelope names the relay forwards; unrecognized
// envelopes arrive as EventMessage and keep their own type.
var relayedTypes = []string{
	realtime.TypeConnectionEstablished,
	realtime.TypeOrderNotification,
	realtime.TypeDeliveryNotification,
	realtime.TypeOrderUpdate,
	realtime.TypeStatusUpdate,
	realtime.TypeBusinessStatusUpdate,
	realtime.EventMessage,
}

func subscribeRelay(ctx context.Context, bus subscriber, pub events.Publisher, logger logx.Logger, now func() time.Time) func() {
	relay := func(ev realtime.Event) {
		typ := ev.Type
		if typ == "" {
			typ = ev.Name
		}
		var aggregateID string
		if ev.Status != nil {
			aggregateID = ev.Status.Target()
		}
		out := events.NewEvent(events.RealtimeType(typ), events.AggregateRealtime, aggregateID, ev.Data, now())
		if err := pub.Publish(ctx, out); err != nil {
			logger.Warn("relay publish failed", logx.String("type", out.Type), logx.Err(err))
		}
	}

	offs := make([]func(), 0, len(relayedTypes))
	for _, name := range relayedTypes {
		offs = append(offs, bus.On(name, relay))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
