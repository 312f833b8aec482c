package api

import (
	"fmt"
	"time"

	"fleetrental/internal/entities"
)

const dateLayout = "2006-01-02"

// Availability
type AvailabilityRequest struct {
	VehicleID int    `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Booking (rental or reservation)
type CreateBookingRequest struct {
	VehicleID     int    `json:"vehicle_id"`
	CustomerID    int    `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

type CreateMaintenanceRequest struct {
	VehicleID   int    `json:"vehicle_id"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", startDate)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", endDate)
	}
	return start, end, nil
}

func (r CreateBookingRequest) toEntity() (*entities.BookingRequest, error) {
	start, end, err := parseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return nil, err
	}
	return &entities.BookingRequest{
		VehicleID:     r.VehicleID,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		StartDate:     start,
		EndDate:       end,
	}, nil
}

func (r CreateMaintenanceRequest) toEntity() (*entities.MaintenanceRequest, error) {
	start, end, err := parseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return nil, err
	}
	return &entities.MaintenanceRequest{
		VehicleID:   r.VehicleID,
		Description: r.Description,
		StartDate:   start,
		EndDate:     end,
	}, nil
}
