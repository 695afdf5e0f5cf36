package domain

import "time"

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusPending   TripStatus = "pending"
	TripStatusAccepted  TripStatus = "accepted"
	TripStatusPickedUp  TripStatus = "pickedup"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// IsDriverUpdate reports whether the status is one a driver may set through
// the trip update endpoint. Acceptance goes through the claim path instead.
func (s TripStatus) IsDriverUpdate() bool {
	switch s {
	case TripStatusPickedUp, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// Trip is a confirmed booking awaiting or undergoing driver service.
// DriverID is empty until a driver claims the trip.
type Trip struct {
	ID          string     `json:"id"`
	Phone       string     `json:"phone"`
	Pickup      string     `json:"pickup"`
	Dropoff     string     `json:"dropoff"`
	PickupTown  string     `json:"pickupTown,omitempty"`
	DropoffTown string     `json:"dropoffTown,omitempty"`
	Fare        string     `json:"fare,omitempty"`
	Status      TripStatus `json:"status"`
	DriverID    string     `json:"driverId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
