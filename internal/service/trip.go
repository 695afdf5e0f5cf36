package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"quickride/internal/domain"
	"quickride/internal/repository"
)

// TripService owns the trip lifecycle: creation from a confirmed dialog,
// driver claims, and status updates. Trip IDs come from a process-wide
// monotonic counter and are never reused, cancellations included.
type TripService struct {
	trips   repository.TripRepository
	counter atomic.Int64
}

// NewTripService creates a new TripService.
func NewTripService(trips repository.TripRepository) *TripService {
	return &TripService{trips: trips}
}

// CreateTripRequest contains the parameters for creating a trip.
type CreateTripRequest struct {
	Phone       string
	Pickup      string
	Dropoff     string
	PickupTown  string
	DropoffTown string
	Fare        string
}

// Create registers a new pending trip with a fresh TR-<n> ID.
func (s *TripService) Create(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	trip := &domain.Trip{
		ID:          fmt.Sprintf("TR-%d", s.counter.Add(1)),
		Phone:       req.Phone,
		Pickup:      req.Pickup,
		Dropoff:     req.Dropoff,
		PickupTown:  req.PickupTown,
		DropoffTown: req.DropoffTown,
		Fare:        req.Fare,
		Status:      domain.TripStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Get retrieves a trip by ID.
func (s *TripService) Get(ctx context.Context, id string) (*domain.Trip, error) {
	if id == "" {
		return nil, ErrInvalidTripID
	}
	return s.trips.GetByID(ctx, id)
}

// All lists every trip in creation order.
func (s *TripService) All(ctx context.Context) ([]*domain.Trip, error) {
	return s.trips.GetAll(ctx)
}

// Pending lists unclaimed pending trips for the driver feed.
func (s *TripService) Pending(ctx context.Context) ([]*domain.Trip, error) {
	return s.trips.GetPending(ctx)
}

// Claim assigns a driver to a pending trip. The repository arbitrates the
// claim race: of two concurrent drivers, exactly one succeeds, the other
// gets repository.ErrAlreadyClaimed.
func (s *TripService) Claim(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.trips.Claim(ctx, tripID, driverID)
}

// UpdateStatus applies a driver-reported status change. Only pickedup,
// completed and cancelled are accepted here; acceptance goes through Claim.
func (s *TripService) UpdateStatus(ctx context.Context, tripID string, status domain.TripStatus) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if !status.IsDriverUpdate() {
		return nil, ErrInvalidStatus
	}
	return s.trips.UpdateStatus(ctx, tripID, status)
}
