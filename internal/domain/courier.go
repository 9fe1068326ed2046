package domain

import "regexp"

// VehicleType is the courier's means of transport.
type VehicleType string

// List of possible courier vehicle types
const (
	VehicleFoot       VehicleType = "on_foot"
	VehicleBicycle    VehicleType = "bicycle"
	VehicleScooter    VehicleType = "scooter"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
)

var allowedVehicles = [...]VehicleType{
	VehicleFoot, VehicleBicycle, VehicleScooter, VehicleMotorcycle, VehicleCar,
}

// Valid checks if the VehicleType is known.
func (v VehicleType) Valid() bool {
	for _, a := range allowedVehicles {
		if v == a {
			return true
		}
	}
	return false
}

// Courier is the signed-in courier's profile as returned by the backend.
type Courier struct {
	ID          string
	Name        string
	Phone       string
	Online      bool
	Vehicle     VehicleType
	CountryCode string
}

// ProfileUpdate carries optional profile fields.
// A nil field means "do not change" that attribute.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Vehicle *VehicleType
}

// Earnings is the courier's earnings summary.
type Earnings struct {
	Currency            string
	Today               float64
	Week                float64
	Total               float64
	CompletedDeliveries int
}

var rePhone = regexp.MustCompile(`^\+[0-9]{8,15}$`)

// ValidatePhone validates an E.164 phone number.
func ValidatePhone(s string) bool {
	return rePhone.MatchString(s)
}
