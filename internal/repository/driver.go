package repository

import (
	"context"

	"quickride/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver. Returns ErrDriverExists if the phone is
	// already registered.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByPhone retrieves a driver by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.Driver, error)

	// GetAll retrieves all drivers in registration order.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// SetLoggedIn updates the login flag of a driver.
	SetLoggedIn(ctx context.Context, id string, loggedIn bool) error
}
