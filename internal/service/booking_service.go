package service

import (
	"context"
	"fmt"
	"log"

	"fleetrental/internal/booking"
	"fleetrental/internal/entities"
	"fleetrental/internal/repository"

	"github.com/google/uuid"
)

// BookingService fronts the booking coordinator for the HTTP layer: it
// builds claims from requests, quotes the rental cost for admitted claims
// and fires notifications. All admission decisions stay inside the
// coordinator.
type BookingService struct {
	Coordinator *booking.Coordinator
	Claims      *repository.ClaimRepository
	Vehicles    *repository.VehicleRepository
	Notifier    *NotifyService
}

func NewBookingService(coordinator *booking.Coordinator, claims *repository.ClaimRepository,
	vehicles *repository.VehicleRepository, notifier *NotifyService) *BookingService {
	return &BookingService{
		Coordinator: coordinator,
		Claims:      claims,
		Vehicles:    vehicles,
		Notifier:    notifier,
	}
}

func (s *BookingService) CreateRental(ctx context.Context, req *entities.BookingRequest) (*entities.BookingResponse, error) {
	return s.createBooking(ctx, req, booking.KindRental)
}

func (s *BookingService) CreateReservation(ctx context.Context, req *entities.BookingRequest) (*entities.BookingResponse, error) {
	return s.createBooking(ctx, req, booking.KindReservation)
}

func (s *BookingService) createBooking(ctx context.Context, req *entities.BookingRequest, kind booking.Kind) (*entities.BookingResponse, error) {
	vehicle, err := s.Vehicles.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.IsActive {
		return nil, fmt.Errorf("vehicle %d is not in the active fleet", req.VehicleID)
	}

	claim := &booking.Claim{
		Code:       uuid.NewString(),
		VehicleID:  req.VehicleID,
		CustomerID: req.CustomerID,
		Kind:       kind,
		Start:      req.StartDate,
		End:        req.EndDate,
	}

	if err := s.Coordinator.TryAdmit(ctx, claim); err != nil {
		return nil, err
	}

	// Cost is quoted only once the claim is admitted; a rejected booking is
	// never charged.
	resp := toBookingResponse(claim)
	total, err := booking.Cost(vehicle.RentalRateCents, claim.Interval().Days())
	if err != nil {
		// Admission already validated the interval, so this is unexpected.
		log.Printf("Cost calculation failed for admitted booking %s: %v", claim.Code, err)
	} else {
		resp.TotalCostCents = total
	}

	if s.Notifier != nil {
		s.Notifier.NotifyBooking(req, vehicle, resp)
	}
	return resp, nil
}

func (s *BookingService) ScheduleMaintenance(ctx context.Context, req *entities.MaintenanceRequest) (*entities.BookingResponse, error) {
	claim := &booking.Claim{
		Code:      uuid.NewString(),
		VehicleID: req.VehicleID,
		Kind:      booking.KindMaintenance,
		Start:     req.StartDate,
		End:       req.EndDate,
	}
	if err := s.Coordinator.TryAdmit(ctx, claim); err != nil {
		return nil, err
	}
	return toBookingResponse(claim), nil
}

func (s *BookingService) GetBooking(ctx context.Context, code string) (*entities.BookingResponse, error) {
	claim, err := s.Claims.GetClaimByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toBookingResponse(claim), nil
}

func (s *BookingService) ListBookings(ctx context.Context, kind, status string) ([]entities.BookingResponse, error) {
	claims, err := s.Claims.ListClaims(ctx, booking.Kind(kind), status)
	if err != nil {
		return nil, err
	}
	out := make([]entities.BookingResponse, 0, len(claims))
	for i := range claims {
		out = append(out, *toBookingResponse(&claims[i]))
	}
	return out, nil
}

// TransitionBooking moves a claim along its lifecycle through the
// coordinator, which re-derives the vehicle label whenever the change
// affects the blocking set.
func (s *BookingService) TransitionBooking(ctx context.Context, code, to string) (*entities.BookingResponse, error) {
	claim, err := s.Claims.GetClaimByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.Coordinator.Transition(ctx, claim.VehicleID, claim.ID, to); err != nil {
		return nil, err
	}
	claim.Status = to
	return toBookingResponse(claim), nil
}

func toBookingResponse(claim *booking.Claim) *entities.BookingResponse {
	return &entities.BookingResponse{
		Code:      claim.Code,
		Kind:      string(claim.Kind),
		Status:    claim.Status,
		VehicleID: claim.VehicleID,
		StartDate: claim.Start,
		EndDate:   claim.End,
		Days:      claim.Interval().Days(),
		CreatedAt: claim.CreatedAt,
		UpdatedAt: claim.UpdatedAt,
	}
}
