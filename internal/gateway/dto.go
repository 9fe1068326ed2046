package gateway

import (
	"time"

	"courier-companion/internal/domain"
)

type deliveryDTO struct {
	ID                string     `json:"id"`
	Status            string     `json:"status"`
	PickupAddress     string     `json:"pickup_address"`
	PickupLatitude    float64    `json:"pickup_latitude"`
	PickupLongitude   float64    `json:"pickup_longitude"`
	DeliveryAddress   string     `json:"delivery_address"`
	DeliveryLatitude  float64    `json:"delivery_latitude"`
	DeliveryLongitude float64    `json:"delivery_longitude"`
	BusinessName      string     `json:"business_name"`
	CustomerName      string     `json:"customer_name"`
	DistanceKm        float64    `json:"distance_km"`
	CourierEarnings   float64    `json:"courier_earnings"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	AcceptedAt        time.Time  `json:"accepted_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

func (d deliveryDTO) toOffer() domain.Offer {
	return domain.Offer{
		ID:           d.ID,
		Pickup:       domain.Stop{Address: d.PickupAddress, Latitude: d.PickupLatitude, Longitude: d.PickupLongitude},
		Dropoff:      domain.Stop{Address: d.DeliveryAddress, Latitude: d.DeliveryLatitude, Longitude: d.DeliveryLongitude},
		BusinessName: d.BusinessName,
		CustomerName: d.CustomerName,
		DistanceKm:   d.DistanceKm,
		Earnings:     d.CourierEarnings,
		CreatedAt:    d.CreatedAt,
		ExpiresAt:    d.ExpiresAt,
	}
}

// toActive returns false when the status is not one the agent understands.
func (d deliveryDTO) toActive() (domain.ActiveDelivery, bool) {
	st, ok := domain.ParseStatus(d.Status)
	if !ok {
		return domain.ActiveDelivery{}, false
	}
	o := d.toOffer()
	return domain.ActiveDelivery{
		ID:           d.ID,
		Status:       st,
		Pickup:       o.Pickup,
		Dropoff:      o.Dropoff,
		BusinessName: d.BusinessName,
		CustomerName: d.CustomerName,
		Earnings:     d.CourierEarnings,
		AcceptedAt:   d.AcceptedAt,
		UpdatedAt:    d.UpdatedAt,
	}, true
}

type verifyPinRequest struct {
	DeliveryID string `json:"deliveryId"`
	Pin        string `json:"pin"`
}

type verifyPinResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type onlineRequest struct {
	Online bool `json:"is_online"`
}

type courierDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Online      bool   `json:"is_online"`
	Vehicle     string `json:"vehicle_type"`
	CountryCode string `json:"country_code"`
}

func (c courierDTO) toDomain() domain.Courier {
	return domain.Courier{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Online:      c.Online,
		Vehicle:     domain.VehicleType(c.Vehicle),
		CountryCode: c.CountryCode,
	}
}

type profileUpdateDTO struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Vehicle *string `json:"vehicle_type,omitempty"`
}

func profileUpdateFromDomain(u domain.ProfileUpdate) profileUpdateDTO {
	out := profileUpdateDTO{Name: u.Name, Phone: u.Phone}
	if u.Vehicle != nil {
		v := string(*u.Vehicle)
		out.Vehicle = &v
	}
	return out
}

type earningsDTO struct {
	Currency            string  `json:"currency"`
	Today               float64 `json:"today"`
	Week                float64 `json:"week"`
	Total               float64 `json:"total"`
	CompletedDeliveries int     `json:"completed_deliveries"`
}

type businessDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"business_type"`
	Rating   float64 `json:"rating"`
	IsOpen   bool    `json:"is_open"`
	Address  string  `json:"address"`
	Distance float64 `json:"distance"`
}

type categoryDTO struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Children []categoryDTO `json:"children"`
}

func (c categoryDTO) toDomain() domain.Category {
	out := domain.Category{ID: c.ID, Name: c.Name}
	for _, ch := range c.Children {
		out.Children = append(out.Children, ch.toDomain())
	}
	return out
}

type featuredDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BusinessID string  `json:"business_id"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url"`
}

type placeDTO struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Address string `json:"address"`
}
