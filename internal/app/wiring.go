package app

import (
	"context"

	"courier-companion/internal/logx"
	"courier-companion/internal/realtime"
)

type statusSink interface {
	HandleStatusUpdate(ctx context.Context, su realtime.StatusUpdate)
}

type feedSink interface {
	Apply(ctx context.Context, su realtime.StatusUpdate)
}

type refresher interface {
	Refresh(ctx context.Context) error
}

type subscriber interface {
	On(name string, fn realtime.Listener) func()
}

// subscribeAgent routes realtime pushes into the offer board and the
// deliveries feed. The returned func removes every listener.
func subscribeAgent(ctx context.Context, bus subscriber, board statusSink, offerList refresher, feed feedSink, logger logx.Logger) func() {
	refresh := func(ev realtime.Event) {
		// listeners run on the channel read loop; the backend call must not block it
		go func() {
			if err := offerList.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("offer refresh after push failed", logx.String("type", ev.Type), logx.Err(err))
			}
		}()
	}

	offs := []func(){
		bus.On(realtime.TypeStatusUpdate, func(ev realtime.Event) {
			if ev.Status == nil {
				return
			}
			board.HandleStatusUpdate(ctx, *ev.Status)
			feed.Apply(ctx, *ev.Status)
		}),
		bus.On(realtime.TypeOrderNotification, refresh),
		bus.On(realtime.TypeDeliveryNotification, refresh),
		bus.On(realtime.EventWarning, func(ev realtime.Event) {
			logger.Warn("realtime warning", logx.String("message", ev.Message))
		}),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
