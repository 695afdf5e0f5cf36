package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyClaimed is returned when a trip already has a driver.
	ErrAlreadyClaimed = errors.New("trip already claimed")

	// ErrDriverExists is returned when a driver phone is already registered.
	ErrDriverExists = errors.New("driver already registered")
)
