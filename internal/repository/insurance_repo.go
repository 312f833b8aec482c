package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fleetrental/internal/booking"
)

type InsuranceRepository struct {
	DB *sql.DB
}

func NewInsuranceRepository(database *sql.DB) *InsuranceRepository {
	return &InsuranceRepository{DB: database}
}

// ListByVehicle returns the vehicle's policies ordered by start date. The
// active-insurance lookup takes the first match from this order, so the
// ordering here is the documented tie-break for overlapping policies.
func (r *InsuranceRepository) ListByVehicle(ctx context.Context, vehicleID int) ([]booking.InsurancePolicy, error) {
	query := `
		SELECT id, vehicle_id, provider, policy_number, status, start_date, end_date
		FROM insurance_policies
		WHERE vehicle_id = $1
		ORDER BY start_date`

	rows, err := r.DB.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("error querying insurance policies for vehicle %d: %w", vehicleID, err)
	}
	defer rows.Close()

	var policies []booking.InsurancePolicy
	for rows.Next() {
		var p booking.InsurancePolicy
		if err := rows.Scan(&p.ID, &p.VehicleID, &p.Provider, &p.PolicyNumber, &p.Status, &p.Start, &p.End); err != nil {
			return nil, fmt.Errorf("error scanning insurance policy: %w", err)
		}
		policies = append(policies, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating insurance policies: %w", err)
	}
	return policies, nil
}
