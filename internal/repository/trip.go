package repository

import (
	"context"

	"quickride/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAll retrieves all trips in creation order.
	GetAll(ctx context.Context) ([]*domain.Trip, error)

	// GetPending retrieves trips that are pending and unclaimed.
	GetPending(ctx context.Context) ([]*domain.Trip, error)

	// UpdateStatus sets the status of a trip and returns the updated trip.
	UpdateStatus(ctx context.Context, id string, status domain.TripStatus) (*domain.Trip, error)

	// Claim atomically assigns a driver to an unclaimed trip and moves it
	// to accepted. Returns ErrAlreadyClaimed if another driver won the
	// race; the trip is left unchanged in that case.
	Claim(ctx context.Context, id, driverID string) (*domain.Trip, error)
}
