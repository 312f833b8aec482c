package booking

import (
	"sort"
	"time"
)

// Availability is the single derived label exposed on a vehicle record.
// It is always recomputable from the current claim set, any stored copy is
// a cache.
type Availability string

const (
	Available     Availability = "Available"
	Rented        Availability = "Rented"
	Reserved      Availability = "Reserved"
	InMaintenance Availability = "Maintenance"
)

// DeriveStatus computes the vehicle's availability label from a snapshot of
// its claims. First match wins: an in-progress repair is overridden by a
// running rental, a confirmed reservation that has started overrides a
// repair that has not. The caller supplies now so the function stays
// deterministic.
func DeriveStatus(claims []Interval, now time.Time) Availability {
	for _, iv := range claims {
		if iv.Kind == KindRental && iv.Status == StatusActive && !iv.End.Before(now) {
			return Rented
		}
	}
	for _, iv := range claims {
		if iv.Kind == KindReservation && iv.Status == StatusConfirmed && !iv.Start.After(now) {
			return Reserved
		}
	}
	for _, iv := range claims {
		if iv.Kind == KindMaintenance && iv.Status == StatusInProgress {
			return InMaintenance
		}
	}
	return Available
}

// ActiveInsurance selects the vehicle's active policy whose period contains
// now. When several policies overlap, the first by collection order wins;
// overlap among insurance periods is tolerated here, not prevented.
func ActiveInsurance(policies []InsurancePolicy, now time.Time) (InsurancePolicy, bool) {
	for _, p := range policies {
		if p.Status == StatusActive && !p.Start.After(now) && !p.End.Before(now) {
			return p, true
		}
	}
	return InsurancePolicy{}, false
}

// RentalHistory returns the vehicle's completed rentals, most recent first.
func RentalHistory(claims []Claim) []Claim {
	return completedByKind(claims, KindRental)
}

// MaintenanceHistory returns the vehicle's completed maintenance windows,
// most recent first.
func MaintenanceHistory(claims []Claim) []Claim {
	return completedByKind(claims, KindMaintenance)
}

func completedByKind(claims []Claim, kind Kind) []Claim {
	var out []Claim
	for _, c := range claims {
		if c.Kind == kind && c.Status == StatusCompleted {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].End.After(out[j].End)
	})
	return out
}
