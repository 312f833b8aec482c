package booking

import (
	"context"
	"time"
)

// ClaimStore is the persistence collaborator for rental, reservation and
// maintenance records. Each call is assumed atomic at the single-record
// level; read-your-writes consistency is expected within one exclusive
// section.
type ClaimStore interface {
	LoadClaims(ctx context.Context, vehicleID int) ([]Claim, error)
	CreateClaim(ctx context.Context, claim *Claim) error
	UpdateClaimStatus(ctx context.Context, claimID int, kind Kind, status string) error
}

// VehicleStore receives the derived availability label. The engine treats
// the stored label as a cache, never a source of truth.
type VehicleStore interface {
	SetAvailabilityLabel(ctx context.Context, vehicleID int, label Availability) error
}

// Legal lifecycle edges per claim kind. Anything not listed is rejected
// with a TransitionError.
var transitions = map[Kind]map[string][]string{
	KindRental: {
		StatusPending: {StatusActive, StatusCancelled},
		StatusActive:  {StatusCompleted, StatusCancelled},
	},
	KindReservation: {
		StatusConfirmed: {StatusFulfilled, StatusCancelled},
		StatusFulfilled: {StatusCompleted},
	},
	KindMaintenance: {
		StatusScheduled:  {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusCompleted},
	},
}

// Initial status a freshly admitted claim enters with.
var initialStatus = map[Kind]string{
	KindRental:      StatusPending,
	KindReservation: StatusConfirmed,
	KindMaintenance: StatusScheduled,
}

// Coordinator is the only entry point through which claims are admitted
// against a vehicle or moved through their lifecycle. Decisions for one
// vehicle are linearized behind a keyed lock; the check -> persist ->
// relabel sequence never interleaves with another admission for the same
// vehicle.
type Coordinator struct {
	claims   ClaimStore
	vehicles VehicleStore
	locks    *vehicleLocks

	// AcquireTimeout bounds the wait for a vehicle's section. Zero means
	// wait as long as the caller's context allows.
	AcquireTimeout time.Duration

	// Now is the clock used for label derivation, overridable in tests.
	Now func() time.Time
}

func NewCoordinator(claims ClaimStore, vehicles VehicleStore, acquireTimeout time.Duration) *Coordinator {
	return &Coordinator{
		claims:         claims,
		vehicles:       vehicles,
		locks:          newVehicleLocks(),
		AcquireTimeout: acquireTimeout,
		Now:            time.Now,
	}
}

func (c *Coordinator) lockVehicle(ctx context.Context, vehicleID int) (func(), error) {
	if c.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.AcquireTimeout)
		defer cancel()
	}
	if err := c.locks.acquire(ctx, vehicleID); err != nil {
		return nil, err
	}
	return func() { c.locks.release(vehicleID) }, nil
}

// TryAdmit admits a new claim or rejects it. On success the claim has been
// persisted with its initial status and the vehicle's availability label
// re-derived; on any error no claim record exists. The claim's Status may
// be left empty, it is forced to the kind's initial status either way.
func (c *Coordinator) TryAdmit(ctx context.Context, claim *Claim) error {
	if err := claim.Interval().Validate(); err != nil {
		return err
	}
	if _, ok := initialStatus[claim.Kind]; !ok {
		return &TransitionError{Kind: claim.Kind, From: "", To: claim.Status}
	}
	claim.Status = initialStatus[claim.Kind]

	release, err := c.lockVehicle(ctx, claim.VehicleID)
	if err != nil {
		return err
	}
	defer release()

	existing, err := c.claims.LoadClaims(ctx, claim.VehicleID)
	if err != nil {
		return &PersistenceError{Op: "load claims", Err: err}
	}

	if hit, found := Conflicts(claim.Interval(), intervals(existing)); found {
		return &ConflictError{Conflicting: hit}
	}

	if err := c.claims.CreateClaim(ctx, claim); err != nil {
		return &PersistenceError{Op: "create claim", Err: err}
	}

	return c.relabel(ctx, claim.VehicleID, append(existing, *claim))
}

// Transition moves a claim along its lifecycle. When the change alters
// whether the claim blocks the vehicle, the availability label is
// re-derived before returning.
func (c *Coordinator) Transition(ctx context.Context, vehicleID, claimID int, to string) error {
	release, err := c.lockVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	defer release()

	claims, err := c.claims.LoadClaims(ctx, vehicleID)
	if err != nil {
		return &PersistenceError{Op: "load claims", Err: err}
	}

	idx := -1
	for i, cl := range claims {
		if cl.ID == claimID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrClaimNotFound
	}

	claim := claims[idx]
	if !legalEdge(claim.Kind, claim.Status, to) {
		return &TransitionError{Kind: claim.Kind, From: claim.Status, To: to}
	}

	// A transition that moves the claim into the blocking set is itself an
	// admission into the vehicle's exclusion zone: a pending rental does not
	// block at creation time, so activating it must re-check. Keeps the
	// claim-set invariant that no two blocking intervals overlap.
	after := claim.Interval()
	after.Status = to
	if !claim.Interval().Blocking() && after.Blocking() {
		others := make([]Interval, 0, len(claims)-1)
		for i, cl := range claims {
			if i != idx {
				others = append(others, cl.Interval())
			}
		}
		if hit, found := Conflicts(after, others); found {
			return &ConflictError{Conflicting: hit}
		}
	}

	if err := c.claims.UpdateClaimStatus(ctx, claim.ID, claim.Kind, to); err != nil {
		return &PersistenceError{Op: "update claim status", Err: err}
	}

	before := claim.Interval().Blocking()
	claims[idx].Status = to
	if before == claims[idx].Interval().Blocking() {
		return nil
	}
	return c.relabel(ctx, vehicleID, claims)
}

// RefreshAvailability re-derives and rewrites the vehicle's label from a
// fresh snapshot. Used by the admin relabel endpoint and the compensating
// cron sweep.
func (c *Coordinator) RefreshAvailability(ctx context.Context, vehicleID int) (Availability, error) {
	release, err := c.lockVehicle(ctx, vehicleID)
	if err != nil {
		return "", err
	}
	defer release()

	claims, err := c.claims.LoadClaims(ctx, vehicleID)
	if err != nil {
		return "", &PersistenceError{Op: "load claims", Err: err}
	}
	label := DeriveStatus(intervals(claims), c.Now())
	if err := c.vehicles.SetAvailabilityLabel(ctx, vehicleID, label); err != nil {
		return "", &PersistenceError{Op: "set availability label", Err: err}
	}
	return label, nil
}

func (c *Coordinator) relabel(ctx context.Context, vehicleID int, claims []Claim) error {
	label := DeriveStatus(intervals(claims), c.Now())
	if err := c.vehicles.SetAvailabilityLabel(ctx, vehicleID, label); err != nil {
		// The claim write already succeeded; surface the failure so the
		// caller does not report a clean success. The relabel sweep repairs
		// the stale label.
		return &PersistenceError{Op: "set availability label", Err: err}
	}
	return nil
}

func legalEdge(kind Kind, from, to string) bool {
	for _, next := range transitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

func intervals(claims []Claim) []Interval {
	out := make([]Interval, 0, len(claims))
	for _, c := range claims {
		out = append(out, c.Interval())
	}
	return out
}
