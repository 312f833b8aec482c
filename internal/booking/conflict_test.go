package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ival(kind Kind, status string, start, end time.Time) Interval {
	return Interval{VehicleID: 1, Kind: kind, Status: status, Start: start, End: end}
}

func TestConflictsBoundaryTouch(t *testing.T) {
	existing := []Interval{
		ival(KindRental, StatusActive, Date(2025, time.January, 1), Date(2025, time.January, 5)),
	}
	candidate := ival(KindReservation, StatusConfirmed, Date(2025, time.January, 5), Date(2025, time.January, 8))

	hit, found := Conflicts(candidate, existing)
	require.True(t, found, "same-day boundary touch must count as a conflict")
	assert.Equal(t, existing[0], hit)
}

func TestConflictsNonBlockingStatusesNeverConflict(t *testing.T) {
	existing := []Interval{
		ival(KindReservation, StatusCancelled, Date(2025, time.January, 1), Date(2025, time.January, 10)),
		ival(KindRental, StatusCompleted, Date(2025, time.January, 1), Date(2025, time.January, 10)),
		ival(KindRental, StatusPending, Date(2025, time.January, 1), Date(2025, time.January, 10)),
		ival(KindMaintenance, StatusScheduled, Date(2025, time.January, 1), Date(2025, time.January, 10)),
	}
	candidate := ival(KindRental, StatusPending, Date(2025, time.January, 3), Date(2025, time.January, 6))

	_, found := Conflicts(candidate, existing)
	assert.False(t, found)
}

func TestConflictsAcrossKinds(t *testing.T) {
	// Rentals, reservations and maintenance windows share one exclusion
	// zone: a vehicle cannot be reserved and in the shop at the same time.
	existing := []Interval{
		ival(KindMaintenance, StatusInProgress, Date(2025, time.March, 10), Date(2025, time.March, 12)),
	}
	candidate := ival(KindReservation, StatusConfirmed, Date(2025, time.March, 11), Date(2025, time.March, 14))

	_, found := Conflicts(candidate, existing)
	assert.True(t, found)
}

func TestConflictsSingleDay(t *testing.T) {
	day := Date(2025, time.July, 4)
	existing := []Interval{ival(KindReservation, StatusConfirmed, day, day)}

	_, found := Conflicts(ival(KindRental, StatusActive, day, day), existing)
	assert.True(t, found, "two single-day intervals on the same date conflict")

	_, found = Conflicts(ival(KindRental, StatusActive, Date(2025, time.July, 5), Date(2025, time.July, 5)), existing)
	assert.False(t, found)
}

func TestConflictsDisjointIntervals(t *testing.T) {
	existing := []Interval{
		ival(KindRental, StatusActive, Date(2025, time.January, 1), Date(2025, time.January, 5)),
	}
	candidate := ival(KindRental, StatusActive, Date(2025, time.January, 6), Date(2025, time.January, 9))

	_, found := Conflicts(candidate, existing)
	assert.False(t, found)
}

func TestIntervalValidate(t *testing.T) {
	bad := ival(KindRental, StatusPending, Date(2025, time.May, 10), Date(2025, time.May, 9))
	assert.ErrorIs(t, bad.Validate(), ErrInvalidDuration)

	single := ival(KindRental, StatusPending, Date(2025, time.May, 10), Date(2025, time.May, 10))
	assert.NoError(t, single.Validate())
	assert.Equal(t, 1, single.Days())

	week := ival(KindRental, StatusPending, Date(2025, time.May, 1), Date(2025, time.May, 7))
	assert.Equal(t, 7, week.Days())
}
