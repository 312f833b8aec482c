package entities

import "time"

// BookingRequest is a parsed rental or reservation request. Dates arrive as
// calendar-date strings on the wire and are parsed by the handler before
// the service sees them.
type BookingRequest struct {
	VehicleID     int       `json:"vehicle_id"`
	CustomerID    int       `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}

type MaintenanceRequest struct {
	VehicleID   int       `json:"vehicle_id"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}
