package domain

import "time"

// Driver is a registered driver. There is at most one driver record per
// phone number; registration rejects duplicates.
type Driver struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	IDNumber     string    `json:"idNumber"`
	Phone        string    `json:"phone"`
	LoggedIn     bool      `json:"loggedIn"`
	RegisteredAt time.Time `json:"registeredAt"`
}
