package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"courier-companion/internal/apperr"
	"courier-companion/internal/domain"
)

// Listing selects which delivery list to fetch.
type Listing string

// Delivery listings served by the backend
const (
	ListingAvailable Listing = "available"
	ListingActive    Listing = "active"
	ListingCompleted Listing = "completed"
)

// CourierAPI wraps the courier endpoints.
type CourierAPI struct {
	do Doer
}

// NewCourierAPI creates a CourierAPI.
func NewCourierAPI(do Doer) *CourierAPI {
	return &CourierAPI{do: do}
}

func (a *CourierAPI) list(ctx context.Context, op string, q url.Values) ([]deliveryDTO, error) {
	body, err := a.do.Do(ctx, Request{Op: op, Method: http.MethodGet, Path: "/courier/deliveries", Query: q})
	if err != nil {
		return nil, err
	}
	var out []deliveryDTO
	if err := decode(op, listPayload(body, "deliveries", "data", "results"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Available lists open offers for the courier.
func (a *CourierAPI) Available(ctx context.Context) ([]domain.Offer, error) {
	dtos, err := a.list(ctx, "courier.available", url.Values{"status": {string(ListingAvailable)}})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Offer, 0, len(dtos))
	for _, d := range dtos {
		if d.ID == "" {
			continue
		}
		out = append(out, d.toOffer())
	}
	return out, nil
}

// Deliveries lists accepted deliveries. listing is active or completed; status
// narrows further when set.
func (a *CourierAPI) Deliveries(ctx context.Context, listing Listing, status domain.DeliveryStatus) ([]domain.ActiveDelivery, error) {
	q := url.Values{"status": {string(listing)}}
	if status != "" {
		q.Set("delivery_status", string(status))
	}
	dtos, err := a.list(ctx, "courier.deliveries", q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ActiveDelivery, 0, len(dtos))
	for _, d := range dtos {
		if ad, ok := d.toActive(); ok {
			out = append(out, ad)
		}
	}
	return out, nil
}

// Accept claims an offer. A delivery already taken by another courier yields apperr.ErrConflict.
func (a *CourierAPI) Accept(ctx context.Context, id string) error {
	_, err := a.do.Do(ctx, Request{
		Op:     "courier.accept",
		Method: http.MethodPost,
		Path:   "/courier/deliveries/" + url.PathEscape(id) + "/accept",
	})
	return err
}

// VerifyPin checks a handoff PIN. A rejected code is ok=false with a nil error.
func (a *CourierAPI) VerifyPin(ctx context.Context, phase domain.Phase, id, pin string) (bool, error) {
	if !phase.Valid() {
		return false, apperr.Invalid("courier.verify_pin", "unknown phase "+string(phase))
	}
	op := "courier.verify_" + string(phase)
	body, err := a.do.Do(ctx, Request{
		Op:     op,
		Method: http.MethodPost,
		Path:   "/courier/deliveries/" + url.PathEscape(id) + "/verify-" + string(phase),
		Body:   verifyPinRequest{DeliveryID: id, Pin: pin},
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindValidation {
			return false, nil
		}
		return false, err
	}
	if len(body) == 0 {
		return true, nil
	}
	var resp verifyPinResponse
	if err := decode(op, body, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

// UpdateStatus reports an explicit status change.
func (a *CourierAPI) UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	_, err := a.do.Do(ctx, Request{
		Op:     "courier.update_status",
		Method: http.MethodPatch,
		Path:   "/courier/deliveries/" + url.PathEscape(id) + "/status",
		Body:   statusRequest{Status: string(status)},
	})
	return err
}

// Profile fetches the signed-in courier.
func (a *CourierAPI) Profile(ctx context.Context) (domain.Courier, error) {
	body, err := a.do.Do(ctx, Request{Op: "courier.profile", Method: http.MethodGet, Path: "/courier/profile"})
	if err != nil {
		return domain.Courier{}, err
	}
	var dto courierDTO
	if err := decode("courier.profile", body, &dto); err != nil {
		return domain.Courier{}, err
	}
	return dto.toDomain(), nil
}

// UpdateProfile sends the changed fields and returns the stored profile.
func (a *CourierAPI) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (domain.Courier, error) {
	if upd.Phone != nil && !domain.ValidatePhone(*upd.Phone) {
		return domain.Courier{}, apperr.Invalid("courier.update_profile", "invalid phone")
	}
	if upd.Vehicle != nil && !upd.Vehicle.Valid() {
		return domain.Courier{}, apperr.Invalid("courier.update_profile", "invalid vehicle type")
	}
	body, err := a.do.Do(ctx, Request{
		Op:     "courier.update_profile",
		Method: http.MethodPut,
		Path:   "/courier/profile",
		Body:   profileUpdateFromDomain(upd),
	})
	if err != nil {
		return domain.Courier{}, err
	}
	var dto courierDTO
	if err := decode("courier.update_profile", body, &dto); err != nil {
		return domain.Courier{}, err
	}
	return dto.toDomain(), nil
}

// SetOnline toggles whether the courier receives offers.
func (a *CourierAPI) SetOnline(ctx context.Context, online bool) error {
	_, err := a.do.Do(ctx, Request{
		Op:     "courier.set_online",
		Method: http.MethodPut,
		Path:   "/courier/online",
		Body:   onlineRequest{Online: online},
	})
	return err
}

// Earnings fetches the earnings summary.
func (a *CourierAPI) Earnings(ctx context.Context) (domain.Earnings, error) {
	body, err := a.do.Do(ctx, Request{Op: "courier.earnings", Method: http.MethodGet, Path: "/courier/earnings"})
	if err != nil {
		return domain.Earnings{}, err
	}
	var dto earningsDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return domain.Earnings{}, &apperr.Error{Kind: apperr.KindServer, Op: "courier.earnings", Message: "malformed response", Err: err}
	}
	return domain.Earnings(dto), nil
}
