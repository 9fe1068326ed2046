package handlers

import (
	"time"

	"courier-companion/internal/domain"
)

type stopDTO struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type offerDTO struct {
	ID               string     `json:"id"`
	Pickup           stopDTO    `json:"pickup"`
	Dropoff          stopDTO    `json:"dropoff"`
	BusinessName     string     `json:"business_name,omitempty"`
	CustomerName     string     `json:"customer_name,omitempty"`
	DistanceKm       float64    `json:"distance_km"`
	Earnings         float64    `json:"earnings"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds int        `json:"remaining_seconds"`
	Accepting        bool       `json:"accepting"`
}

type offerListResponse struct {
	Offers      []offerDTO `json:"offers"`
	Stale       bool       `json:"stale"`
	RefreshedAt time.Time  `json:"refreshed_at"`
}

type deliveryDTO struct {
	ID           string                `json:"id"`
	Status       domain.DeliveryStatus `json:"status"`
	Pickup       stopDTO               `json:"pickup"`
	Dropoff      stopDTO               `json:"dropoff"`
	BusinessName string                `json:"business_name,omitempty"`
	CustomerName string                `json:"customer_name,omitempty"`
	Earnings     float64               `json:"earnings"`
	AcceptedAt   time.Time             `json:"accepted_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type deliveryListResponse struct {
	Deliveries  []deliveryDTO `json:"deliveries"`
	Stale       bool          `json:"stale"`
	RefreshedAt time.Time     `json:"refreshed_at"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type pinTypeRequest struct {
	Digit string `json:"digit"`
}

type selectCountryRequest struct {
	Code string `json:"code"`
}

type coordinatesRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type courierDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Phone       string             `json:"phone"`
	Online      bool               `json:"is_online"`
	Vehicle     domain.VehicleType `json:"vehicle_type,omitempty"`
	CountryCode string             `json:"country_code,omitempty"`
}

type updateProfileRequest struct {
	Name    *string             `json:"name,omitempty"`
	Phone   *string             `json:"phone,omitempty"`
	Vehicle *domain.VehicleType `json:"vehicle_type,omitempty"`
}

type onlineRequest struct {
	Online *bool `json:"is_online"`
}

type earningsDTO struct {
	Currency            string  `json:"currency,omitempty"`
	Today               float64 `json:"today"`
	Week                float64 `json:"week"`
	Total               float64 `json:"total"`
	CompletedDeliveries int     `json:"completed_deliveries"`
}

type businessDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type,omitempty"`
	Rating   float64 `json:"rating"`
	IsOpen   bool    `json:"is_open"`
	Address  string  `json:"address,omitempty"`
	Distance float64 `json:"distance"`
}

type categoryDTO struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Children []categoryDTO `json:"children,omitempty"`
}

type featuredDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BusinessID string  `json:"business_id,omitempty"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url,omitempty"`
}

type areaDTO struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type marketplaceResponse[T any] struct {
	Area  areaDTO `json:"area"`
	Items []T     `json:"items"`
}

type sessionRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	CourierID string     `json:"courier_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Connected bool       `json:"connected"`
}
