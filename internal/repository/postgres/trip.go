package postgres

import (
	"context"
	"database/sql"
	"errors"

	"quickride/internal/domain"
	"quickride/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, phone, pickup, dropoff, COALESCE(pickup_town, ''), COALESCE(dropoff_town, ''), COALESCE(fare, ''), status, COALESCE(driver_id, ''), created_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (id, phone, pickup, dropoff, pickup_town, dropoff_town, fare, status, driver_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.Phone,
		trip.Pickup,
		trip.Dropoff,
		trip.PickupTown,
		trip.DropoffTown,
		trip.Fare,
		trip.Status,
		trip.DriverID,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetAll retrieves all trips in creation order.
func (r *TripRepository) GetAll(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at, id`
	return r.queryMany(ctx, query)
}

// GetPending retrieves pending, unclaimed trips in creation order.
func (r *TripRepository) GetPending(ctx context.Context) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE status = 'pending' AND driver_id IS NULL ORDER BY created_at, id`
	return r.queryMany(ctx, query)
}

// UpdateStatus sets the status of a trip.
func (r *TripRepository) UpdateStatus(ctx context.Context, id string, status domain.TripStatus) (*domain.Trip, error) {
	query := `UPDATE trips SET status = $2 WHERE id = $1`
	res, err := r.q.ExecContext(ctx, query, id, status)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Claim atomically assigns a driver to an unclaimed trip. The WHERE clause
// carries the claim check, so the database arbitrates racing drivers.
func (r *TripRepository) Claim(ctx context.Context, id, driverID string) (*domain.Trip, error) {
	query := `UPDATE trips SET driver_id = $2, status = $3 WHERE id = $1 AND driver_id IS NULL`
	res, err := r.q.ExecContext(ctx, query, id, driverID, domain.TripStatusAccepted)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 1 {
		return r.GetByID(ctx, id)
	}

	// Lost the race or the trip does not exist; a lookup tells which.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, repository.ErrAlreadyClaimed
}

func (r *TripRepository) scanOne(row *sql.Row) (*domain.Trip, error) {
	var trip domain.Trip
	err := row.Scan(
		&trip.ID,
		&trip.Phone,
		&trip.Pickup,
		&trip.Dropoff,
		&trip.PickupTown,
		&trip.DropoffTown,
		&trip.Fare,
		&trip.Status,
		&trip.DriverID,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &trip, nil
}

func (r *TripRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		if err := rows.Scan(
			&trip.ID,
			&trip.Phone,
			&trip.Pickup,
			&trip.Dropoff,
			&trip.PickupTown,
			&trip.DropoffTown,
			&trip.Fare,
			&trip.Status,
			&trip.DriverID,
			&trip.CreatedAt,
		); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}
	return trips, rows.Err()
}
