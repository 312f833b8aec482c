package service

import (
	"context"
	"time"

	"fleetrental/internal/booking"
	"fleetrental/internal/entities"
	"fleetrental/internal/repository"
)

// FleetService answers read-side questions about the fleet: availability
// checks, free-vehicle search and label statistics. It never admits claims;
// a positive availability answer is advisory and the admission path
// re-checks under the vehicle's exclusive section.
type FleetService struct {
	Coordinator *booking.Coordinator
	Claims      *repository.ClaimRepository
	Vehicles    *repository.VehicleRepository
}

func NewFleetService(coordinator *booking.Coordinator, claims *repository.ClaimRepository,
	vehicles *repository.VehicleRepository) *FleetService {
	return &FleetService{Coordinator: coordinator, Claims: claims, Vehicles: vehicles}
}

func (s *FleetService) CheckAvailability(ctx context.Context, vehicleID int, start, end time.Time) (*entities.AvailabilityResponse, error) {
	candidate := booking.Interval{VehicleID: vehicleID, Start: start, End: end}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	vehicle, err := s.Vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	claims, err := s.Claims.LoadClaims(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	resp := &entities.AvailabilityResponse{
		VehicleID:          vehicleID,
		RequestedStartDate: start,
		RequestedEndDate:   end,
		Available:          true,
		CurrentLabel:       vehicle.Availability,
	}
	if hit, found := booking.Conflicts(candidate, claimIntervals(claims)); found {
		resp.Available = false
		resp.Conflict = &entities.ConflictDetail{
			Kind:      string(hit.Kind),
			Status:    hit.Status,
			StartDate: hit.Start,
			EndDate:   hit.End,
		}
	}
	return resp, nil
}

// FindAvailableVehicles returns active vehicles with no blocking claim
// overlapping the requested range.
func (s *FleetService) FindAvailableVehicles(ctx context.Context, start, end time.Time) ([]entities.VehicleSummary, error) {
	candidate := booking.Interval{Start: start, End: end}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	vehicles, err := s.Vehicles.ListActiveVehicles(ctx)
	if err != nil {
		return nil, err
	}

	var out []entities.VehicleSummary
	for _, v := range vehicles {
		claims, err := s.Claims.LoadClaims(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		if _, found := booking.Conflicts(candidate, claimIntervals(claims)); found {
			continue
		}
		out = append(out, entities.VehicleSummary{
			ID:              v.ID,
			Model:           v.Model,
			Manufacturer:    v.Manufacturer,
			VehicleType:     v.VehicleType,
			FuelType:        v.FuelType,
			RentalRateCents: v.RentalRateCents,
			LicensePlate:    v.LicensePlate,
			Availability:    v.Availability,
		})
	}
	return out, nil
}

func (s *FleetService) GetStatistics(ctx context.Context) (*entities.StatisticsResponse, error) {
	stats, err := s.Vehicles.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	return &entities.StatisticsResponse{
		Total:       stats.Total,
		Available:   stats.Available,
		Rented:      stats.Rented,
		Reserved:    stats.Reserved,
		Maintenance: stats.Maintenance,
	}, nil
}

// RefreshAvailability forces a re-derivation of the vehicle's label from
// its claim set. The caller cannot choose the label; it is derived-only.
func (s *FleetService) RefreshAvailability(ctx context.Context, vehicleID int) (booking.Availability, error) {
	return s.Coordinator.RefreshAvailability(ctx, vehicleID)
}

func claimIntervals(claims []booking.Claim) []booking.Interval {
	out := make([]booking.Interval, 0, len(claims))
	for _, c := range claims {
		out = append(out, c.Interval())
	}
	return out
}
