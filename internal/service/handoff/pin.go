package handoff

import (
	"context"
	"errors"
	"sync"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
)

// PinLength is the number of cells of a challenge.
const PinLength = 4

// Notices shown after a submission.
const (
	NoticeIncomplete = "Enter all 4 digits"
	NoticeIncorrect  = "Incorrect PIN"
	NoticeRetry      = "Could not verify, try again"
)

// NavigateDeliveries is where the courier goes after a successful handoff.
const NavigateDeliveries = "deliveries"

var (
	// ErrNotDigit rejects input that is not 0-9.
	ErrNotDigit = apperr.Invalid("handoff.type", "only digits are accepted")
	// ErrSubmitInFlight rejects input while a verification is pending.
	ErrSubmitInFlight = errors.New("pin verification in progress")
)

// Result is the outcome of a submission.
type Result struct {
	Verified   bool                  `json:"verified"`
	Notice     string                `json:"notice,omitempty"`
	NavigateTo string                `json:"navigate_to,omitempty"`
	Status     domain.DeliveryStatus `json:"status,omitempty"`
}

// PinState is a challenge as displayed.
type PinState struct {
	DeliveryID string            `json:"delivery_id"`
	Phase      domain.Phase      `json:"phase"`
	Cells      [PinLength]string `json:"cells"`
	Focus      int               `json:"focus"`
	Submitting bool              `json:"submitting"`
	Notice     string            `json:"notice,omitempty"`
}

type submitFunc func(ctx context.Context, pin string) (Result, error)

// PinChallenge is one 4-digit entry session for a delivery and phase.
type PinChallenge struct {
	deliveryID string
	phase      domain.Phase
	submit     submitFunc

	mu       sync.Mutex
	cells    [PinLength]byte
	focus    int
	inFlight bool
	notice   string
}

func newPinChallenge(id string, phase domain.Phase, submit submitFunc) *PinChallenge {
	return &PinChallenge{deliveryID: id, phase: phase, submit: submit}
}

// Phase is the handoff step this challenge confirms.
func (p *PinChallenge) Phase() domain.Phase { return p.phase }

// State returns a copy of the challenge.
func (p *PinChallenge) State() PinState {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := PinState{
		DeliveryID: p.deliveryID,
		Phase:      p.phase,
		Focus:      p.focus,
		Submitting: p.inFlight,
		Notice:     p.notice,
	}
	for i, c := range p.cells {
		if c != 0 {
			st.Cells[i] = string(c)
		}
	}
	return st
}

// Type enters r into the focused cell. Filling the last cell submits, and
// the submission result is returned; otherwise the result is nil.
func (p *PinChallenge) Type(ctx context.Context, r rune) (*Result, error) {
	if r < '0' || r > '9' {
		return nil, ErrNotDigit
	}
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	p.cells[p.focus] = byte(r)
	p.notice = ""
	last := p.focus == PinLength-1
	if !last {
		p.focus++
	}
	p.mu.Unlock()

	if !last {
		return nil, nil
	}
	return p.Submit(ctx)
}

// Backspace clears the focused cell, or moves focus back when it is empty.
func (p *PinChallenge) Backspace() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight {
		return ErrSubmitInFlight
	}
	if p.cells[p.focus] != 0 {
		p.cells[p.focus] = 0
		return nil
	}
	if p.focus > 0 {
		p.focus--
	}
	return nil
}

// Submit verifies the entered code. Anything other than exactly 4 digits is
// refused without a network call. On failure the cells are cleared and focus
// returns to the first cell.
func (p *PinChallenge) Submit(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	pin, ok := p.codeLocked()
	if !ok {
		p.notice = NoticeIncomplete
		p.mu.Unlock()
		return &Result{Notice: NoticeIncomplete}, apperr.Invalid("handoff.submit", NoticeIncomplete)
	}
	p.inFlight = true
	p.mu.Unlock()

	res, err := p.submit(ctx, pin)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if err != nil || !res.Verified {
		p.cells = [PinLength]byte{}
		p.focus = 0
	}
	p.notice = res.Notice
	return &res, err
}

func (p *PinChallenge) codeLocked() (string, bool) {
	buf := make([]byte, 0, PinLength)
	for _, c := range p.cells {
		if c == 0 {
			return "", false
		}
		buf = append(buf, c)
	}
	return string(buf), true
}
