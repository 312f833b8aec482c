package db

import "time"

// Vehicle is the fleet record as stored. Availability is a cache of the
// label derived by the booking engine, never edited directly.
type Vehicle struct {
	ID              int
	Model           string
	Manufacturer    string
	Year            string
	Color           string
	VehicleType     string
	FuelType        string
	RentalRateCents int64
	Availability    string
	LicensePlate    string
	Mileage         int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type VehicleStatistics struct {
	Total       int64
	Available   int64
	Rented      int64
	Reserved    int64
	Maintenance int64
}
