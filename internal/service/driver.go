package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"quickride/internal/domain"
	"quickride/internal/repository"
)

// DriverService handles driver registration and login. Driver IDs come from
// a process-wide monotonic counter, one record per phone number.
type DriverService struct {
	drivers repository.DriverRepository
	counter atomic.Int64
}

// NewDriverService creates a new DriverService.
func NewDriverService(drivers repository.DriverRepository) *DriverService {
	return &DriverService{drivers: drivers}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	Name     string
	IDNumber string
	Phone    string
}

// Register creates a new driver with a fresh DR-<n> ID. All fields are
// required; a duplicate phone returns repository.ErrDriverExists.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	if req.Name == "" {
		return nil, ErrInvalidDriverName
	}
	if req.IDNumber == "" {
		return nil, ErrInvalidDriverIDNumber
	}
	if req.Phone == "" {
		return nil, ErrInvalidDriverPhone
	}

	driver := &domain.Driver{
		ID:           fmt.Sprintf("DR-%d", s.counter.Add(1)),
		Name:         req.Name,
		IDNumber:     req.IDNumber,
		Phone:        req.Phone,
		RegisteredAt: time.Now(),
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// All lists every driver in registration order.
func (s *DriverService) All(ctx context.Context) ([]*domain.Driver, error) {
	return s.drivers.GetAll(ctx)
}

// Login looks a driver up by phone and marks the record logged in. There is
// no password or token; the phone number is the whole credential.
func (s *DriverService) Login(ctx context.Context, phone string) (*domain.Driver, error) {
	if phone == "" {
		return nil, ErrInvalidDriverPhone
	}

	driver, err := s.drivers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	if err := s.drivers.SetLoggedIn(ctx, driver.ID, true); err != nil {
		return nil, err
	}
	driver.LoggedIn = true
	return driver, nil
}
