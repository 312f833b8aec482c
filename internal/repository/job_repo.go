package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

// ExpiredClaim identifies a claim the sweeps should move along, together
// with the vehicle whose label needs re-deriving afterwards.
type ExpiredClaim struct {
	ID        int
	VehicleID int
}

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetActiveRentalsPastEndDate finds active rentals whose end date has
// passed and that should be auto-completed.
func (r *JobRepository) GetActiveRentalsPastEndDate(ctx context.Context) ([]ExpiredClaim, error) {
	return r.queryExpired(ctx,
		`SELECT id, vehicle_id FROM rentals WHERE status = 'active' AND rental_end_date < NOW()`)
}

// GetFulfilledReservationsPastReturnDate finds fulfilled reservations past
// their return date.
func (r *JobRepository) GetFulfilledReservationsPastReturnDate(ctx context.Context) ([]ExpiredClaim, error) {
	return r.queryExpired(ctx,
		`SELECT id, vehicle_id FROM reservations WHERE status = 'fulfilled' AND return_date < NOW()`)
}

// GetStalePendingRentals finds pending rentals created before the cutoff
// that were never activated.
func (r *JobRepository) GetStalePendingRentals(ctx context.Context, before time.Time) ([]ExpiredClaim, error) {
	return r.queryExpired(ctx,
		`SELECT id, vehicle_id FROM rentals WHERE status = 'pending' AND created_at < $1`, before)
}

func (r *JobRepository) queryExpired(ctx context.Context, query string, args ...interface{}) ([]ExpiredClaim, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying expired claims: %w", err)
	}
	defer rows.Close()

	var claims []ExpiredClaim
	for rows.Next() {
		var c ExpiredClaim
		if err := rows.Scan(&c.ID, &c.VehicleID); err != nil {
			return nil, fmt.Errorf("error scanning expired claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return claims, nil
}

// UpdateRentalStatuses batch-updates rental statuses, also bumping
// updated_at.
func (r *JobRepository) UpdateRentalStatuses(ctx context.Context, ids []int, newStatus string) error {
	return r.batchUpdate(ctx, "rentals", ids, newStatus)
}

func (r *JobRepository) UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string) error {
	return r.batchUpdate(ctx, "reservations", ids, newStatus)
}

func (r *JobRepository) batchUpdate(ctx context.Context, table string, ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = NOW() WHERE id = ANY($2)`, table)
	result, err := r.DB.ExecContext(ctx, query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating %s statuses: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d %s to '%s'", rowsAffected, table, newStatus)
	}
	return nil
}
