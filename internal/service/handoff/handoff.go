// Package handoff runs the two PIN confirmations of a delivery: pickup
// first, then delivery.
package handoff

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
	"courier-companion/internal/events"
	"courier-companion/internal/logx"
)

// Stage is where a delivery's handoff is. It is one of PickupPending,
// DeliveryPending or Complete.
type Stage interface {
	stage()
}

// PickupPending waits for the pickup PIN.
type PickupPending struct{ Challenge *PinChallenge }

// DeliveryPending waits for the delivery PIN.
type DeliveryPending struct{ Challenge *PinChallenge }

// Complete means both PINs were confirmed or the delivery ended otherwise.
type Complete struct{ Status domain.DeliveryStatus }

func (PickupPending) stage()   {}
func (DeliveryPending) stage() {}
func (Complete) stage()        {}

// ErrComplete is returned when no challenge is left for a delivery.
var ErrComplete = apperr.New(apperr.KindConflict, "handoff", "handoff already complete")

// Handoff tracks one delivery. Only the current phase's challenge is reachable.
type Handoff struct {
	id  string
	svc *Service

	mu    sync.Mutex
	stage Stage
}

// Stage returns the current stage.
func (h *Handoff) Stage() Stage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stage
}

// Challenge returns the challenge of the current phase.
func (h *Handoff) Challenge() (*PinChallenge, error) {
	switch st := h.Stage().(type) {
	case PickupPending:
		return st.Challenge, nil
	case DeliveryPending:
		return st.Challenge, nil
	default:
		return nil, ErrComplete
	}
}

func (h *Handoff) submit(phase domain.Phase) submitFunc {
	return func(ctx context.Context, pin string) (Result, error) {
		return h.svc.verify(ctx, h, phase, pin)
	}
}

func stageFor(h *Handoff, status domain.DeliveryStatus) Stage {
	switch status {
	case domain.StatusAssigned:
		return PickupPending{Challenge: newPinChallenge(h.id, domain.PhasePickup, h.submit(domain.PhasePickup))}
	case domain.StatusPickedUp, domain.StatusInTransit:
		return DeliveryPending{Challenge: newPinChallenge(h.id, domain.PhaseDelivery, h.submit(domain.PhaseDelivery))}
	default:
		return Complete{Status: status}
	}
}

func phaseOf(st Stage) domain.Phase {
	switch st.(type) {
	case PickupPending:
		return domain.PhasePickup
	case DeliveryPending:
		return domain.PhaseDelivery
	default:
		return ""
	}
}

// Service owns the handoffs of the active deliveries.
type Service struct {
	api      pinVerifier
	tracker  tracker
	pub      events.Publisher
	logger   logx.Logger
	attempts *prometheus.CounterVec
	now      func() time.Time

	mu       sync.Mutex
	handoffs map[string]*Handoff
}

// NewService creates a Service. pub and attempts may be nil.
func NewService(api pinVerifier, tr tracker, pub events.Publisher, attempts *prometheus.CounterVec, logger logx.Logger) *Service {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		api:      api,
		tracker:  tr,
		pub:      pub,
		logger:   logger.With(logx.Component("handoff")),
		attempts: attempts,
		now:      time.Now,
		handoffs: make(map[string]*Handoff),
	}
}

// For returns the handoff of an active delivery, in step with its status.
func (s *Service) For(id string) (*Handoff, error) {
	d, ok := s.tracker.Get(id)
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "handoff", "delivery "+id+" is not active")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.handoffs[id]
	if h == nil {
		h = &Handoff{id: id, svc: s}
		s.handoffs[id] = h
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stage == nil || phaseOf(h.stage) != phaseOf(stageFor(h, d.Status)) {
		h.stage = stageFor(h, d.Status)
	}
	if _, done := h.stage.(Complete); done {
		delete(s.handoffs, id)
	}
	return h, nil
}

// Challenge returns the current challenge of delivery id.
func (s *Service) Challenge(id string) (*PinChallenge, error) {
	h, err := s.For(id)
	if err != nil {
		return nil, err
	}
	return h.Challenge()
}

func (s *Service) verify(ctx context.Context, h *Handoff, phase domain.Phase, pin string) (Result, error) {
	ok, err := s.api.VerifyPin(ctx, phase, h.id, pin)
	if err != nil {
		s.count(phase, "error")
		s.logger.Warn("pin verification failed", logx.String("delivery_id", h.id), logx.String("phase", string(phase)), logx.Err(err))
		return Result{Notice: NoticeRetry}, fmt.Errorf("verify %s pin: %w", phase, err)
	}
	if !ok {
		s.count(phase, "incorrect")
		s.publish(ctx, events.EventPinRejected, h.id, phase, "")
		return Result{Notice: NoticeIncorrect}, nil
	}
	s.count(phase, "ok")

	to := domain.StatusPickedUp
	published := events.EventPickupConfirmed
	if phase == domain.PhaseDelivery {
		to = domain.StatusDelivered
		published = events.EventDeliveryConfirmed
	}
	// the backend already accepted the PIN, so a local mismatch is only logged
	if _, err := s.tracker.Advance(h.id, to); err != nil {
		s.logger.Warn("local status not advanced", logx.String("delivery_id", h.id), logx.Err(err))
	}

	h.mu.Lock()
	h.stage = stageFor(h, to)
	h.mu.Unlock()
	if to.Terminal() {
		s.mu.Lock()
		delete(s.handoffs, h.id)
		s.mu.Unlock()
	}

	s.publish(ctx, published, h.id, phase, to)
	return Result{Verified: true, NavigateTo: NavigateDeliveries, Status: to}, nil
}

func (s *Service) publish(ctx context.Context, typ, id string, phase domain.Phase, status domain.DeliveryStatus) {
	payload := map[string]string{"delivery_id": id, "phase": string(phase)}
	if status != "" {
		payload["status"] = string(status)
	}
	if err := s.pub.Publish(ctx, events.NewEvent(typ, events.AggregateDelivery, id, payload, s.now())); err != nil {
		s.logger.Warn("publish handoff event", logx.String("type", typ), logx.Err(err))
	}
}

func (s *Service) count(phase domain.Phase, result string) {
	if s.attempts != nil {
		s.attempts.WithLabelValues(string(phase), result).Inc()
	}
}
