package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
	"courier-companion/internal/events"
	"courier-companion/internal/logx"
	"courier-companion/internal/service/deliveries"
	"courier-companion/internal/service/handoff"
)

type stubVerifier struct {
	verifyFn func(ctx context.Context, phase domain.Phase, id, pin string) (bool, error)
}

func (s *stubVerifier) VerifyPin(ctx context.Context, phase domain.Phase, id, pin string) (bool, error) {
	return s.verifyFn(ctx, phase, id, pin)
}

func newPinHandler(t *testing.T, status domain.DeliveryStatus, verify func(context.Context, domain.Phase, string, string) (bool, error)) (*PinHandler, *deliveries.Feed) {
	t.Helper()

	feed := deliveries.NewFeed(nil, events.NoopPublisher{}, logx.Nop())
	feed.Add(domain.ActiveDelivery{ID: "d-1", Status: status})
	svc := handoff.NewService(&stubVerifier{verifyFn: verify}, feed, events.NoopPublisher{}, nil, logx.Nop())
	return NewPinHandler(logx.Nop(), svc), feed
}

func typeDigit(h *PinHandler, digit string) *httptest.ResponseRecorder {
	req := withURLParam(jsonRequest(http.MethodPost, "/deliveries/d-1/pin/type", `{"digit":"`+digit+`"}`), "id", "d-1")
	rr := httptest.NewRecorder()
	h.Type(rr, req)
	return rr
}

func decodePin(t *testing.T, rr *httptest.ResponseRecorder) pinResponse {
	t.Helper()
	var body pinResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestPinHandler_PickupCodeAdvancesDelivery(t *testing.T) {
	t.Parallel()

	h, feed := newPinHandler(t, domain.StatusAssigned, func(_ context.Context, phase domain.Phase, id, pin string) (bool, error) {
		assert.Equal(t, domain.PhasePickup, phase)
		assert.Equal(t, "d-1", id)
		assert.Equal(t, "1234", pin)
		return true, nil
	})

	for _, d := range []string{"1", "2", "3"} {
		rr := typeDigit(h, d)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, decodePin(t, rr).Result)
	}
	rr := typeDigit(h, "4")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodePin(t, rr)
	require.NotNil(t, body.Result)
	assert.True(t, body.Result.Verified)
	assert.Equal(t, handoff.NavigateDeliveries, body.Result.NavigateTo)

	d, ok := feed.Get("d-1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusPickedUp, d.Status)

	// the delivery challenge is now the current one
	rr = httptest.NewRecorder()
	h.State(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/deliveries/d-1/pin", nil), "id", "d-1"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.PhaseDelivery, decodePin(t, rr).State.Phase)
}

func TestPinHandler_WrongCodeClearsCells(t *testing.T) {
	t.Parallel()

	h, feed := newPinHandler(t, domain.StatusPickedUp, func(context.Context, domain.Phase, string, string) (bool, error) {
		return false, nil
	})
	for _, d := range []string{"0", "0", "0"} {
		typeDigit(h, d)
	}
	rr := typeDigit(h, "0")

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodePin(t, rr)
	require.NotNil(t, body.Result)
	assert.False(t, body.Result.Verified)
	assert.Equal(t, handoff.NoticeIncorrect, body.Result.Notice)
	assert.Equal(t, 0, body.State.Focus)
	assert.Equal(t, [handoff.PinLength]string{}, body.State.Cells)

	d, _ := feed.Get("d-1")
	assert.Equal(t, domain.StatusPickedUp, d.Status)
}

func TestPinHandler_TransportFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	h, _ := newPinHandler(t, domain.StatusAssigned, func(context.Context, domain.Phase, string, string) (bool, error) {
		return false, apperr.New(apperr.KindNetwork, "courier.verify_pin", "")
	})
	for _, d := range []string{"1", "2", "3"} {
		typeDigit(h, d)
	}
	rr := typeDigit(h, "4")

	require.Equal(t, http.StatusBadGateway, rr.Code)
	body := decodePin(t, rr)
	require.NotNil(t, body.Result)
	assert.Equal(t, handoff.NoticeRetry, body.Result.Notice)
	assert.NotEmpty(t, body.Error)
	assert.Equal(t, 0, body.State.Focus)
}

func TestPinHandler_RejectsNonDigitAndIncompleteSubmit(t *testing.T) {
	t.Parallel()

	h, _ := newPinHandler(t, domain.StatusAssigned, func(context.Context, domain.Phase, string, string) (bool, error) {
		t.Fatal("no network call expected")
		return false, nil
	})

	rr := typeDigit(h, "x")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, decodePin(t, rr).State.Focus)

	typeDigit(h, "5")
	rr = httptest.NewRecorder()
	h.Submit(rr, withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/d-1/pin/submit", nil), "id", "d-1"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, handoff.NoticeIncomplete, decodePin(t, rr).Result.Notice)
}

func TestPinHandler_Backspace(t *testing.T) {
	t.Parallel()

	h, _ := newPinHandler(t, domain.StatusAssigned, nil)
	typeDigit(h, "7")

	backspace := func() pinResponse {
		rr := httptest.NewRecorder()
		h.Backspace(rr, withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/d-1/pin/backspace", nil), "id", "d-1"))
		require.Equal(t, http.StatusOK, rr.Code)
		return decodePin(t, rr)
	}

	// focus is on the empty second cell, so the first backspace moves back
	assert.Equal(t, 0, backspace().State.Focus)
	st := backspace().State
	assert.Equal(t, 0, st.Focus)
	assert.Equal(t, "", st.Cells[0])
}

func TestPinHandler_UnknownDelivery(t *testing.T) {
	t.Parallel()

	h, _ := newPinHandler(t, domain.StatusAssigned, nil)
	rr := httptest.NewRecorder()
	h.State(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/deliveries/nope/pin", nil), "id", "nope"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPinHandler_FinishedDeliveryHasNoChallenge(t *testing.T) {
	t.Parallel()

	h, _ := newPinHandler(t, domain.StatusDelivered, nil)
	rr := httptest.NewRecorder()
	h.State(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/deliveries/d-1/pin", nil), "id", "d-1"))

	// delivered deliveries live in history, not on the active list
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
