package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatusPriorityOrder(t *testing.T) {
	now := Date(2025, time.June, 10)

	activeRental := ival(KindRental, StatusActive, Date(2025, time.June, 8), Date(2025, time.June, 11))
	confirmedRes := ival(KindReservation, StatusConfirmed, Date(2025, time.June, 10), Date(2025, time.June, 15))
	repair := ival(KindMaintenance, StatusInProgress, Date(2025, time.June, 9), Date(2025, time.June, 12))

	// Rental wins over a reservation starting today and over a repair.
	assert.Equal(t, Rented, DeriveStatus([]Interval{repair, confirmedRes, activeRental}, now))

	// No active rental: reservation that has started wins over the repair.
	assert.Equal(t, Reserved, DeriveStatus([]Interval{repair, confirmedRes}, now))

	// Only the repair.
	assert.Equal(t, InMaintenance, DeriveStatus([]Interval{repair}, now))

	// Nothing blocking at all.
	assert.Equal(t, Available, DeriveStatus(nil, now))
}

func TestDeriveStatusIgnoresStaleAndFutureClaims(t *testing.T) {
	now := Date(2025, time.June, 10)

	endedRental := ival(KindRental, StatusActive, Date(2025, time.June, 1), Date(2025, time.June, 5))
	futureRes := ival(KindReservation, StatusConfirmed, Date(2025, time.June, 20), Date(2025, time.June, 25))

	// An active rental already past its end date does not label the vehicle
	// Rented, and a reservation that has not started does not label it
	// Reserved.
	assert.Equal(t, Available, DeriveStatus([]Interval{endedRental, futureRes}, now))
}

func TestDeriveStatusIdempotent(t *testing.T) {
	now := Date(2025, time.June, 10)
	claims := []Interval{
		ival(KindReservation, StatusConfirmed, Date(2025, time.June, 9), Date(2025, time.June, 12)),
		ival(KindMaintenance, StatusInProgress, Date(2025, time.June, 10), Date(2025, time.June, 10)),
	}

	first := DeriveStatus(claims, now)
	second := DeriveStatus(claims, now)
	assert.Equal(t, first, second)
	assert.Equal(t, Reserved, first)
}

func TestActiveInsuranceFirstMatchWins(t *testing.T) {
	now := Date(2025, time.June, 10)
	policies := []InsurancePolicy{
		{ID: 1, Status: StatusCompleted, Start: Date(2024, time.January, 1), End: Date(2024, time.December, 31)},
		{ID: 2, Status: StatusActive, Start: Date(2025, time.January, 1), End: Date(2025, time.December, 31)},
		{ID: 3, Status: StatusActive, Start: Date(2025, time.June, 1), End: Date(2026, time.May, 31)},
	}

	// Two overlapping active policies: first by collection order wins.
	p, ok := ActiveInsurance(policies, now)
	require.True(t, ok)
	assert.Equal(t, 2, p.ID)

	_, ok = ActiveInsurance(policies, Date(2030, time.January, 1))
	assert.False(t, ok)
}

func TestHistoriesSortedDescendingByTerminalDate(t *testing.T) {
	claims := []Claim{
		{ID: 1, Kind: KindRental, Status: StatusCompleted, End: Date(2025, time.February, 10)},
		{ID: 2, Kind: KindRental, Status: StatusCancelled, End: Date(2025, time.March, 1)},
		{ID: 3, Kind: KindRental, Status: StatusCompleted, End: Date(2025, time.April, 2)},
		{ID: 4, Kind: KindMaintenance, Status: StatusCompleted, End: Date(2025, time.March, 20)},
		{ID: 5, Kind: KindMaintenance, Status: StatusCompleted, End: Date(2025, time.January, 5)},
	}

	rentals := RentalHistory(claims)
	require.Len(t, rentals, 2)
	assert.Equal(t, []int{3, 1}, []int{rentals[0].ID, rentals[1].ID})

	maint := MaintenanceHistory(claims)
	require.Len(t, maint, 2)
	assert.Equal(t, []int{4, 5}, []int{maint[0].ID, maint[1].ID})
}

func TestCost(t *testing.T) {
	total, err := Cost(5000, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), total)

	_, err = Cost(5000, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = Cost(-1, 3)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}
