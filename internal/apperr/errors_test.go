package apperr_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"courier-companion/internal/apperr"
)

func TestClassify_Status(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, apperr.ErrAuth},
		{http.StatusForbidden, apperr.ErrAuth},
		{http.StatusNotFound, apperr.ErrNotFound},
		{http.StatusConflict, apperr.ErrConflict},
		{http.StatusBadRequest, apperr.ErrInvalid},
		{http.StatusUnprocessableEntity, apperr.ErrInvalid},
		{http.StatusTooManyRequests, apperr.ErrRateLimited},
		{http.StatusGatewayTimeout, apperr.ErrTimeout},
		{http.StatusBadGateway, apperr.ErrServer},
		{http.StatusTeapot, apperr.ErrUnknown},
	}
	for _, tc := range cases {
		err := apperr.Classify("op", tc.status, nil)
		require.ErrorIsf(t, err, tc.want, "status %d", tc.status)
	}

	require.NoError(t, apperr.Classify("op", http.StatusOK, nil))
	require.NoError(t, apperr.Classify("op", http.StatusNoContent, nil))
}

func TestClassify_Transport(t *testing.T) {
	t.Parallel()

	err := apperr.Classify("op", 0, fmt.Errorf("do: %w", context.DeadlineExceeded))
	require.ErrorIs(t, err, apperr.ErrTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	require.ErrorIs(t, apperr.Classify("op", 0, opErr), apperr.ErrNetwork)
}

func TestRetryableAndTerminal(t *testing.T) {
	t.Parallel()

	require.True(t, apperr.Retryable(apperr.New(apperr.KindServer, "x", "")))
	require.True(t, apperr.Retryable(apperr.New(apperr.KindRateLimited, "x", "")))
	require.False(t, apperr.Retryable(apperr.New(apperr.KindAuth, "x", "")))
	require.False(t, apperr.Retryable(apperr.ErrConflict))
	require.False(t, apperr.Retryable(nil))

	require.True(t, apperr.Terminal(apperr.Invalid("pin", "need 4 digits")))
	require.True(t, apperr.Terminal(fmt.Errorf("wrap: %w", apperr.ErrNotFound)))
	require.False(t, apperr.Terminal(apperr.ErrNetwork))
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := &apperr.Error{Kind: apperr.KindConflict, Op: "accept delivery", Status: 409}
	require.Equal(t, "accept delivery: conflict (status 409)", err.Error())
	require.Equal(t, apperr.KindConflict, apperr.KindOf(fmt.Errorf("ctx: %w", err)))
	require.Equal(t, apperr.KindUnknown, apperr.KindOf(errors.New("plain")))
}
