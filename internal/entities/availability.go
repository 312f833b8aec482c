package entities

import "time"

// ConflictDetail describes the blocking interval that rejected a candidate.
type ConflictDetail struct {
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type AvailabilityResponse struct {
	VehicleID          int             `json:"vehicle_id"`
	RequestedStartDate time.Time       `json:"requested_start_date"`
	RequestedEndDate   time.Time       `json:"requested_end_date"`
	Available          bool            `json:"available"`
	CurrentLabel       string          `json:"current_label"`
	Conflict           *ConflictDetail `json:"conflict,omitempty"`
}

type VehicleSummary struct {
	ID              int    `json:"id"`
	Model           string `json:"model"`
	Manufacturer    string `json:"manufacturer"`
	VehicleType     string `json:"vehicle_type"`
	FuelType        string `json:"fuel_type"`
	RentalRateCents int64  `json:"rental_rate_cents"`
	LicensePlate    string `json:"license_plate"`
	Availability    string `json:"availability"`
}

type StatisticsResponse struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Rented      int64 `json:"rented"`
	Reserved    int64 `json:"reserved"`
	Maintenance int64 `json:"maintenance"`
}
