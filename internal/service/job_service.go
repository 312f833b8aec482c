package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"fleetrental/internal/booking"
	"fleetrental/internal/repository"
)

// JobService runs the scheduled sweeps: auto-completing claims whose dates
// have passed, cancelling stale pending rentals and re-deriving labels for
// the vehicles they touched. The relabel pass doubles as the compensating
// repair for any label left stale by a crash between the claim write and
// the label write.
type JobService struct {
	Repo        *repository.JobRepository
	Vehicles    *repository.VehicleRepository
	Coordinator *booking.Coordinator
}

func NewJobService(repo *repository.JobRepository, vehicles *repository.VehicleRepository,
	coordinator *booking.Coordinator) *JobService {
	return &JobService{Repo: repo, Vehicles: vehicles, Coordinator: coordinator}
}

// CompleteFinishedClaims marks active rentals and fulfilled reservations
// past their end date as completed, then refreshes the affected vehicles.
func (s *JobService) CompleteFinishedClaims(ctx context.Context) error {
	log.Println("Cron Job: Checking for claims to mark as 'completed'...")

	rentals, err := s.Repo.GetActiveRentalsPastEndDate(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to get active rentals past end date: %w", err)
	}
	reservations, err := s.Repo.GetFulfilledReservationsPastReturnDate(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to get fulfilled reservations past return date: %w", err)
	}

	if len(rentals) == 0 && len(reservations) == 0 {
		log.Println("Cron Job: No claims found past their end date.")
		return nil
	}

	if err := s.Repo.UpdateRentalStatuses(ctx, claimIDs(rentals), booking.StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to complete rentals: %w", err)
	}
	if err := s.Repo.UpdateReservationStatuses(ctx, claimIDs(reservations), booking.StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to complete reservations: %w", err)
	}

	s.refreshVehicles(ctx, append(rentals, reservations...))
	return nil
}

// CancelStalePendingRentals cancels rentals that sat pending longer than
// maxAge without being activated.
func (s *JobService) CancelStalePendingRentals(ctx context.Context, maxAge time.Duration) error {
	stale, err := s.Repo.GetStalePendingRentals(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return fmt.Errorf("cron job: failed to get stale pending rentals: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}
	log.Printf("Cron Job: Cancelling %d stale pending rentals", len(stale))
	if err := s.Repo.UpdateRentalStatuses(ctx, claimIDs(stale), booking.StatusCancelled); err != nil {
		return fmt.Errorf("cron job: failed to cancel stale rentals: %w", err)
	}
	// Pending rentals never block, so no relabel is needed here.
	return nil
}

// RelabelFleet re-derives the availability label of every active vehicle.
func (s *JobService) RelabelFleet(ctx context.Context) error {
	ids, err := s.Vehicles.ListActiveVehicleIDs(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to list vehicles for relabel: %w", err)
	}
	for _, id := range ids {
		if _, err := s.Coordinator.RefreshAvailability(ctx, id); err != nil {
			log.Printf("Cron Job: relabel failed for vehicle %d: %v", id, err)
		}
	}
	return nil
}

func (s *JobService) refreshVehicles(ctx context.Context, claims []repository.ExpiredClaim) {
	seen := make(map[int]bool)
	for _, c := range claims {
		if seen[c.VehicleID] {
			continue
		}
		seen[c.VehicleID] = true
		if _, err := s.Coordinator.RefreshAvailability(ctx, c.VehicleID); err != nil {
			log.Printf("Cron Job: availability refresh failed for vehicle %d: %v", c.VehicleID, err)
		}
	}
}

func claimIDs(claims []repository.ExpiredClaim) []int {
	ids := make([]int, 0, len(claims))
	for _, c := range claims {
		ids = append(ids, c.ID)
	}
	return ids
}
