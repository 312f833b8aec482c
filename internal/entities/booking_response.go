package entities

import "time"

type BookingResponse struct {
	Code           string    `json:"code"`
	Kind           string    `json:"kind"`
	Status         string    `json:"status"`
	VehicleID      int       `json:"vehicle_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Days           int       `json:"days"`
	TotalCostCents int64     `json:"total_cost_cents,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type BookingEmailData struct {
	CustomerName       string
	BookingCode        string
	VehicleModel       string
	LicensePlate       string
	StartDateFormatted string
	EndDateFormatted   string
	Status             string
	CurrentYear        int
}
