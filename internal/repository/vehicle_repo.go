package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetrental/internal/booking"
	"fleetrental/internal/db"
)

// VehicleRepository reads the fleet and implements the engine's
// VehicleStore port for the derived availability label.
type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

const vehicleColumns = `id, model, manufacturer, year, color, vehicle_type, fuel_type,
	rental_rate_cents, availability, license_plate, mileage, is_active, created_at, updated_at`

func scanVehicle(row interface{ Scan(...interface{}) error }) (*db.Vehicle, error) {
	var v db.Vehicle
	err := row.Scan(&v.ID, &v.Model, &v.Manufacturer, &v.Year, &v.Color, &v.VehicleType, &v.FuelType,
		&v.RentalRateCents, &v.Availability, &v.LicensePlate, &v.Mileage, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) GetVehicle(ctx context.Context, id int) (*db.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vehicle %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return v, nil
}

func (r *VehicleRepository) ListActiveVehicleIDs(ctx context.Context) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM vehicles WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing vehicle ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning vehicle id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating vehicle ids: %w", err)
	}
	return ids, nil
}

func (r *VehicleRepository) ListActiveVehicles(ctx context.Context) ([]db.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE is_active ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning vehicle row: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating vehicle rows: %w", err)
	}
	return vehicles, nil
}

// SetAvailabilityLabel writes the derived label back to the vehicle record.
// Cache write only; the claim tables stay the source of truth.
func (r *VehicleRepository) SetAvailabilityLabel(ctx context.Context, vehicleID int, label booking.Availability) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE vehicles SET availability = $1, updated_at = NOW() WHERE id = $2`, string(label), vehicleID)
	if err != nil {
		return fmt.Errorf("error updating availability for vehicle %d: %w", vehicleID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("vehicle %d not found", vehicleID)
	}
	return nil
}

func (r *VehicleRepository) GetStatistics(ctx context.Context) (*db.VehicleStatistics, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE availability = 'Available'),
			COUNT(*) FILTER (WHERE availability = 'Rented'),
			COUNT(*) FILTER (WHERE availability = 'Reserved'),
			COUNT(*) FILTER (WHERE availability = 'Maintenance')
		FROM vehicles WHERE is_active`

	var stats db.VehicleStatistics
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&stats.Total, &stats.Available, &stats.Rented, &stats.Reserved, &stats.Maintenance)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicle statistics: %w", err)
	}
	return &stats, nil
}
