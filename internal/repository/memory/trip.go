package memory

import (
	"context"
	"sync"

	"quickride/internal/domain"
	"quickride/internal/repository"
)

// TripRepository is an in-memory implementation of repository.TripRepository.
// Trips are never deleted; the order slice preserves creation order for
// listings.
type TripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip
	order []string
}

// NewTripRepository creates an empty trip repository.
func NewTripRepository() *TripRepository {
	return &TripRepository{trips: make(map[string]*domain.Trip)}
}

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copy := *trip
	r.trips[trip.ID] = &copy
	r.order = append(r.order, trip.ID)
	return nil
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trip, ok := r.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

// GetAll retrieves all trips in creation order.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := make([]*domain.Trip, 0, len(r.order))
	for _, id := range r.order {
		copy := *r.trips[id]
		trips = append(trips, &copy)
	}
	return trips, nil
}

// GetPending retrieves pending, unclaimed trips in creation order.
func (r *TripRepository) GetPending(ctx context.Context) ([]*domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trips []*domain.Trip
	for _, id := range r.order {
		trip := r.trips[id]
		if trip.Status == domain.TripStatusPending && trip.DriverID == "" {
			copy := *trip
			trips = append(trips, &copy)
		}
	}
	return trips, nil
}

// UpdateStatus sets the status of a trip.
func (r *TripRepository) UpdateStatus(ctx context.Context, id string, status domain.TripStatus) (*domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	trip.Status = status

	copy := *trip
	return &copy, nil
}

// Claim atomically assigns a driver to an unclaimed trip. The check and the
// assignment happen under the registry lock, so of two racing drivers
// exactly one wins.
func (r *TripRepository) Claim(ctx context.Context, id, driverID string) (*domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if trip.DriverID != "" {
		return nil, repository.ErrAlreadyClaimed
	}

	trip.DriverID = driverID
	trip.Status = domain.TripStatusAccepted

	copy := *trip
	return &copy, nil
}
