package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failure independently of the transport that produced it.
type Kind string

// List of failure kinds
const (
	KindNetwork     Kind = "network"
	KindAuth        Kind = "auth"
	KindNotFound    Kind = "not_found"
	KindServer      Kind = "server"
	KindRateLimited Kind = "rate_limited"
	KindValidation  Kind = "validation"
	KindTimeout     Kind = "timeout"
	KindConflict    Kind = "conflict"
	KindUnknown     Kind = "unknown"
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrNetwork     = errors.New("network unavailable")
	ErrAuth        = errors.New("session expired")
	ErrNotFound    = errors.New("not found")
	ErrServer      = errors.New("server error")
	ErrRateLimited = errors.New("rate limited")
	ErrInvalid     = errors.New("invalid input")
	ErrTimeout     = errors.New("timeout")
	ErrConflict    = errors.New("conflict")
	ErrUnknown     = errors.New("unknown error")
)

var sentinels = map[Kind]error{
	KindNetwork:     ErrNetwork,
	KindAuth:        ErrAuth,
	KindNotFound:    ErrNotFound,
	KindServer:      ErrServer,
	KindRateLimited: ErrRateLimited,
	KindValidation:  ErrInvalid,
	KindTimeout:     ErrTimeout,
	KindConflict:    ErrConflict,
	KindUnknown:     ErrUnknown,
}

// Error is a classified failure of a single operation.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = sentinels[e.Kind].Error()
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// New builds a classified error.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Invalid builds a validation error for op.
func Invalid(op, message string) *Error {
	return New(KindValidation, op, message)
}

// KindOf returns the kind of err, KindUnknown when it is not classified.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	for k, s := range sentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return KindUnknown
}

// Classify maps a transport error or an HTTP status into the taxonomy.
// A nil err with a 2xx status returns nil.
func Classify(op string, status int, err error) error {
	if err != nil {
		return &Error{Kind: transportKind(err), Op: op, Err: err}
	}
	kind, ok := statusKind(status)
	if !ok {
		return nil
	}
	return &Error{Kind: kind, Op: op, Status: status}
}

func transportKind(err error) Kind {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &ne) && ne.Timeout():
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindUnknown
	default:
		return KindNetwork
	}
}

func statusKind(status int) (Kind, bool) {
	switch {
	case status >= 200 && status < 300:
		return "", false
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindAuth, true
	case status == http.StatusNotFound:
		return KindNotFound, true
	case status == http.StatusConflict:
		return KindConflict, true
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation, true
	case status == http.StatusTooManyRequests:
		return KindRateLimited, true
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return KindTimeout, true
	case status >= 500:
		return KindServer, true
	default:
		return KindUnknown, true
	}
}

// Retryable reports whether a retry may succeed without user action.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindTimeout, KindServer, KindRateLimited:
		return true
	default:
		return false
	}
}

// Terminal reports whether the failure will not change on retry.
func Terminal(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindValidation:
		return true
	default:
		return false
	}
}
