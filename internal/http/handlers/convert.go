package handlers

import (
	"courier-companion/internal/domain"
	"courier-companion/internal/service/deliveries"
	"courier-companion/internal/service/offers"
	"courier-companion/internal/session"
)

func stopToResponse(s domain.Stop) stopDTO {
	return stopDTO(s)
}

func offerToResponse(v offers.View) offerDTO {
	o := v.Offer
	return offerDTO{
		ID:               o.ID,
		Pickup:           stopToResponse(o.Pickup),
		Dropoff:          stopToResponse(o.Dropoff),
		BusinessName:     o.BusinessName,
		CustomerName:     o.CustomerName,
		DistanceKm:       o.DistanceKm,
		Earnings:         o.Earnings,
		ExpiresAt:        o.ExpiresAt,
		RemainingSeconds: v.Remaining,
		Accepting:        v.Accepting,
	}
}

func snapshotToResponse(s offers.Snapshot) offerListResponse {
	out := make([]offerDTO, 0, len(s.Offers))
	for _, v := range s.Offers {
		out = append(out, offerToResponse(v))
	}
	return offerListResponse{Offers: out, Stale: s.Stale, RefreshedAt: s.RefreshedAt}
}

func deliveryToResponse(d domain.ActiveDelivery) deliveryDTO {
	return deliveryDTO{
		ID:           d.ID,
		Status:       d.Status,
		Pickup:       stopToResponse(d.Pickup),
		Dropoff:      stopToResponse(d.Dropoff),
		BusinessName: d.BusinessName,
		CustomerName: d.CustomerName,
		Earnings:     d.Earnings,
		AcceptedAt:   d.AcceptedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func listToResponse(l deliveries.List) deliveryListResponse {
	out := make([]deliveryDTO, 0, len(l.Deliveries))
	for _, d := range l.Deliveries {
		out = append(out, deliveryToResponse(d))
	}
	return deliveryListResponse{Deliveries: out, Stale: l.Stale, RefreshedAt: l.RefreshedAt}
}

func courierToResponse(c domain.Courier) courierDTO {
	return courierDTO(c)
}

func (r updateProfileRequest) toModel() domain.ProfileUpdate {
	return domain.ProfileUpdate(r)
}

func earningsToResponse(e domain.Earnings) earningsDTO {
	return earningsDTO(e)
}

func areaToResponse(a domain.Area) areaDTO {
	return areaDTO(a)
}

func businessesToResponse(list []domain.Business) []businessDTO {
	out := make([]businessDTO, 0, len(list))
	for _, b := range list {
		out = append(out, businessDTO(b))
	}
	return out
}

func categoriesToResponse(list []domain.Category) []categoryDTO {
	out := make([]categoryDTO, 0, len(list))
	for _, c := range list {
		out = append(out, categoryDTO{ID: c.ID, Name: c.Name, Children: categoriesToResponse(c.Children)})
	}
	return out
}

func featuredToResponse(list []domain.FeaturedItem) []featuredDTO {
	out := make([]featuredDTO, 0, len(list))
	for _, f := range list {
		out = append(out, featuredDTO(f))
	}
	return out
}

func identityToResponse(id session.Identity, connected bool) sessionResponse {
	resp := sessionResponse{CourierID: id.CourierID, Connected: connected}
	if !id.ExpiresAt.IsZero() {
		exp := id.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}
