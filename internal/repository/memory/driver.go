package memory

import (
	"context"
	"sync"

	"quickride/internal/domain"
	"quickride/internal/repository"
)

// DriverRepository is an in-memory implementation of
// repository.DriverRepository with a phone uniqueness index.
type DriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
	byPhone map[string]string
	order   []string
}

// NewDriverRepository creates an empty driver repository.
func NewDriverRepository() *DriverRepository {
	return &DriverRepository{
		drivers: make(map[string]*domain.Driver),
		byPhone: make(map[string]string),
	}
}

// Create adds a new driver, rejecting duplicate phone numbers.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byPhone[driver.Phone]; ok {
		return repository.ErrDriverExists
	}

	copy := *driver
	r.drivers[driver.ID] = &copy
	r.byPhone[driver.Phone] = driver.ID
	r.order = append(r.order, driver.ID)
	return nil
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	driver, ok := r.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

// GetByPhone retrieves a driver by phone number.
func (r *DriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r.drivers[id]
	return &copy, nil
}

// GetAll retrieves all drivers in registration order.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]*domain.Driver, 0, len(r.order))
	for _, id := range r.order {
		copy := *r.drivers[id]
		drivers = append(drivers, &copy)
	}
	return drivers, nil
}

// SetLoggedIn updates the login flag of a driver.
func (r *DriverRepository) SetLoggedIn(ctx context.Context, id string, loggedIn bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	driver, ok := r.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.LoggedIn = loggedIn
	return nil
}
