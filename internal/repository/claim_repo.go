package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetrental/internal/booking"
)

// ClaimRepository persists rentals, reservations and maintenance windows
// and implements the engine's ClaimStore port. Each kind keeps its own
// table, mirroring the records they came from; the engine sees them as one
// claim set per vehicle.
type ClaimRepository struct {
	DB *sql.DB
}

func NewClaimRepository(db *sql.DB) *ClaimRepository {
	return &ClaimRepository{DB: db}
}

const claimColumns = `id, code, vehicle_id, customer_id, kind, status, start_date, end_date, created_at, updated_at`

const loadClaimsQuery = `
	SELECT id, code, vehicle_id, customer_id, 'rental' AS kind, status,
	       rental_start_date AS start_date, rental_end_date AS end_date, created_at, updated_at
	FROM rentals WHERE vehicle_id = $1
	UNION ALL
	SELECT id, code, vehicle_id, customer_id, 'reservation' AS kind, status,
	       pickup_date AS start_date, return_date AS end_date, created_at, updated_at
	FROM reservations WHERE vehicle_id = $1
	UNION ALL
	SELECT id, code, vehicle_id, 0 AS customer_id, 'maintenance' AS kind, status,
	       start_date, end_date, created_at, updated_at
	FROM maintenance_windows WHERE vehicle_id = $1
	ORDER BY start_date`

func (r *ClaimRepository) LoadClaims(ctx context.Context, vehicleID int) ([]booking.Claim, error) {
	rows, err := r.DB.QueryContext(ctx, loadClaimsQuery, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("error querying claims for vehicle %d: %w", vehicleID, err)
	}
	defer rows.Close()

	var claims []booking.Claim
	for rows.Next() {
		var c booking.Claim
		if err := rows.Scan(&c.ID, &c.Code, &c.VehicleID, &c.CustomerID, &c.Kind, &c.Status,
			&c.Start, &c.End, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning claim row: %w", err)
		}
		claims = append(claims, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating claim rows: %w", err)
	}
	return claims, nil
}

func (r *ClaimRepository) CreateClaim(ctx context.Context, claim *booking.Claim) error {
	var query string
	args := []interface{}{claim.Code, claim.VehicleID, claim.CustomerID, claim.Status, claim.Start, claim.End}

	switch claim.Kind {
	case booking.KindRental:
		query = `
			INSERT INTO rentals (code, vehicle_id, customer_id, status, rental_start_date, rental_end_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING id, created_at, updated_at`
	case booking.KindReservation:
		query = `
			INSERT INTO reservations (code, vehicle_id, customer_id, status, pickup_date, return_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
			RETURNING id, created_at, updated_at`
	case booking.KindMaintenance:
		query = `
			INSERT INTO maintenance_windows (code, vehicle_id, status, start_date, end_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING id, created_at, updated_at`
		args = []interface{}{claim.Code, claim.VehicleID, claim.Status, claim.Start, claim.End}
	default:
		return fmt.Errorf("unknown claim kind %q", claim.Kind)
	}

	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&claim.ID, &claim.CreatedAt, &claim.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting %s claim: %w", claim.Kind, err)
	}
	return nil
}

func (r *ClaimRepository) UpdateClaimStatus(ctx context.Context, claimID int, kind booking.Kind, status string) error {
	table, err := tableForKind(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2`, table)
	result, err := r.DB.ExecContext(ctx, query, status, claimID)
	if err != nil {
		return fmt.Errorf("error updating %s %d status: %w", kind, claimID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%s claim %d not found", kind, claimID)
	}
	return nil
}

const claimByCodeQuery = `
	SELECT id, code, vehicle_id, customer_id, 'rental' AS kind, status,
	       rental_start_date AS start_date, rental_end_date AS end_date, created_at, updated_at
	FROM rentals WHERE code = $1
	UNION ALL
	SELECT id, code, vehicle_id, customer_id, 'reservation' AS kind, status,
	       pickup_date AS start_date, return_date AS end_date, created_at, updated_at
	FROM reservations WHERE code = $1
	UNION ALL
	SELECT id, code, vehicle_id, 0 AS customer_id, 'maintenance' AS kind, status,
	       start_date, end_date, created_at, updated_at
	FROM maintenance_windows WHERE code = $1`

func (r *ClaimRepository) GetClaimByCode(ctx context.Context, code string) (*booking.Claim, error) {
	var c booking.Claim
	err := r.DB.QueryRowContext(ctx, claimByCodeQuery, code).Scan(
		&c.ID, &c.Code, &c.VehicleID, &c.CustomerID, &c.Kind, &c.Status,
		&c.Start, &c.End, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("claim with code '%s' not found: %w", code, booking.ErrClaimNotFound)
		}
		return nil, fmt.Errorf("error querying claim by code: %w", err)
	}
	return &c, nil
}

// ListClaims returns claims across all vehicles, optionally filtered by
// kind and status. Used by the admin listing.
func (r *ClaimRepository) ListClaims(ctx context.Context, kind booking.Kind, status string) ([]booking.Claim, error) {
	query := `
	SELECT ` + claimColumns + ` FROM (
		SELECT id, code, vehicle_id, customer_id, 'rental' AS kind, status,
		       rental_start_date AS start_date, rental_end_date AS end_date, created_at, updated_at
		FROM rentals
		UNION ALL
		SELECT id, code, vehicle_id, customer_id, 'reservation' AS kind, status,
		       pickup_date AS start_date, return_date AS end_date, created_at, updated_at
		FROM reservations
		UNION ALL
		SELECT id, code, vehicle_id, 0 AS customer_id, 'maintenance' AS kind, status,
		       start_date, end_date, created_at, updated_at
		FROM maintenance_windows
	) AS claims
	WHERE ($1 = '' OR kind = $1) AND ($2 = '' OR status = $2)
	ORDER BY start_date DESC`

	rows, err := r.DB.QueryContext(ctx, query, string(kind), status)
	if err != nil {
		return nil, fmt.Errorf("error listing claims: %w", err)
	}
	defer rows.Close()

	var claims []booking.Claim
	for rows.Next() {
		var c booking.Claim
		if err := rows.Scan(&c.ID, &c.Code, &c.VehicleID, &c.CustomerID, &c.Kind, &c.Status,
			&c.Start, &c.End, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning claim row: %w", err)
		}
		claims = append(claims, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating claim rows: %w", err)
	}
	return claims, nil
}

func tableForKind(kind booking.Kind) (string, error) {
	switch kind {
	case booking.KindRental:
		return "rentals", nil
	case booking.KindReservation:
		return "reservations", nil
	case booking.KindMaintenance:
		return "maintenance_windows", nil
	}
	return "", fmt.Errorf("unknown claim kind %q", kind)
}
