package service

import "errors"

var (
	// ErrInvalidDriverName is returned when a registration has no name.
	ErrInvalidDriverName = errors.New("driver name is required")

	// ErrInvalidDriverIDNumber is returned when a registration has no id number.
	ErrInvalidDriverIDNumber = errors.New("driver id number is required")

	// ErrInvalidDriverPhone is returned when a registration or login has no phone.
	ErrInvalidDriverPhone = errors.New("driver phone is required")

	// ErrInvalidTripID is returned when a trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidDriverID is returned when a driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidStatus is returned when a status is not a valid driver update.
	ErrInvalidStatus = errors.New("invalid trip status")
)
