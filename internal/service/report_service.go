package service

import (
	"context"
	"time"

	"fleetrental/internal/booking"
	"fleetrental/internal/repository"
)

// ReportService serves the read-only derived queries: active insurance and
// completed-claim histories. Pure filters over snapshots, no side effects.
type ReportService struct {
	Claims    *repository.ClaimRepository
	Insurance *repository.InsuranceRepository
	Now       func() time.Time
}

func NewReportService(claims *repository.ClaimRepository, insurance *repository.InsuranceRepository) *ReportService {
	return &ReportService{Claims: claims, Insurance: insurance, Now: time.Now}
}

func (s *ReportService) ActiveInsurance(ctx context.Context, vehicleID int) (*booking.InsurancePolicy, error) {
	policies, err := s.Insurance.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	policy, ok := booking.ActiveInsurance(policies, s.Now())
	if !ok {
		return nil, nil
	}
	return &policy, nil
}

func (s *ReportService) RentalHistory(ctx context.Context, vehicleID int) ([]booking.Claim, error) {
	claims, err := s.Claims.LoadClaims(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return booking.RentalHistory(claims), nil
}

func (s *ReportService) MaintenanceHistory(ctx context.Context, vehicleID int) ([]booking.Claim, error) {
	claims, err := s.Claims.LoadClaims(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return booking.MaintenanceHistory(claims), nil
}
