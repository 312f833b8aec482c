package booking

import "time"

// Kind identifies which lifecycle a claim follows. Rentals, reservations and
// maintenance windows all occupy the same exclusion zone on a vehicle.
type Kind string

const (
	KindRental      Kind = "rental"
	KindReservation Kind = "reservation"
	KindMaintenance Kind = "maintenance"
)

// Claim lifecycle statuses. Each kind uses a subset, see transitions in
// coordinator.go.
const (
	StatusPending    = "pending"
	StatusActive     = "active"
	StatusConfirmed  = "confirmed"
	StatusFulfilled  = "fulfilled"
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Interval is a day-granularity time span claimed against a vehicle.
// Start and End are inclusive calendar dates; Start == End is a single-day
// booking.
type Interval struct {
	VehicleID int       `json:"vehicle_id"`
	Kind      Kind      `json:"kind"`
	Status    string    `json:"status"`
	Start     time.Time `json:"start_date"`
	End       time.Time `json:"end_date"`
}

// Blocking reports whether the interval currently occupies its vehicle.
// Only one status per kind blocks: an active rental, a confirmed
// reservation, an in-progress maintenance window. Everything else
// (pending, completed, cancelled, ...) never blocks.
func (iv Interval) Blocking() bool {
	switch iv.Kind {
	case KindRental:
		return iv.Status == StatusActive
	case KindReservation:
		return iv.Status == StatusConfirmed
	case KindMaintenance:
		return iv.Status == StatusInProgress
	}
	return false
}

// Overlaps uses closed-interval comparison: a rental ending on day N and
// another starting on day N do overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return !iv.Start.After(other.End) && !other.Start.After(iv.End)
}

// Days returns the inclusive day count of the interval. A single-day
// interval counts as 1.
func (iv Interval) Days() int {
	return int(iv.End.Sub(iv.Start).Hours()/24) + 1
}

// Validate checks the Start <= End invariant.
func (iv Interval) Validate() error {
	if iv.Start.IsZero() || iv.End.IsZero() || iv.Start.After(iv.End) {
		return ErrInvalidDuration
	}
	return nil
}

// Claim is a rental, reservation or maintenance record as the engine sees
// it: the interval plus the identifying metadata the stores need. The engine
// never owns claim storage, it works on snapshots loaded per vehicle.
type Claim struct {
	ID         int       `json:"id"`
	Code       string    `json:"code"`
	VehicleID  int       `json:"vehicle_id"`
	CustomerID int       `json:"customer_id,omitempty"`
	Kind       Kind      `json:"kind"`
	Status     string    `json:"status"`
	Start      time.Time `json:"start_date"`
	End        time.Time `json:"end_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c Claim) Interval() Interval {
	return Interval{
		VehicleID: c.VehicleID,
		Kind:      c.Kind,
		Status:    c.Status,
		Start:     c.Start,
		End:       c.End,
	}
}

// InsurancePolicy is a reporting-only record; overlapping policies are not
// a conflict this engine prevents.
type InsurancePolicy struct {
	ID           int       `json:"id"`
	VehicleID    int       `json:"vehicle_id"`
	Provider     string    `json:"provider"`
	PolicyNumber string    `json:"policy_number"`
	Status       string    `json:"status"`
	Start        time.Time `json:"start_date"`
	End          time.Time `json:"end_date"`
}

// Date normalizes a timestamp to midnight UTC, the representation used for
// all interval boundaries.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
