package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDuration rejects malformed intervals and non-positive day
	// counts. Caller error, never retried.
	ErrInvalidDuration = errors.New("booking: invalid duration")

	// ErrBusy means the per-vehicle section could not be acquired in time.
	// Nothing was mutated, the caller may retry with backoff.
	ErrBusy = errors.New("booking: vehicle is busy, retry later")

	// ErrClaimNotFound is returned by transitions targeting a claim that is
	// not in the vehicle's claim set.
	ErrClaimNotFound = errors.New("booking: claim not found")
)

// ConflictError rejects a candidate interval that overlaps an existing
// blocking interval. The conflicting interval is carried for diagnostics.
type ConflictError struct {
	Conflicting Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking: interval conflicts with %s (%s) from %s to %s",
		e.Conflicting.Kind, e.Conflicting.Status,
		e.Conflicting.Start.Format("2006-01-02"), e.Conflicting.End.Format("2006-01-02"))
}

// TransitionError rejects a status change that does not follow a legal edge
// in the claim kind's state machine.
type TransitionError struct {
	Kind Kind
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booking: illegal %s transition %s -> %s", e.Kind, e.From, e.To)
}

// PersistenceError wraps a collaborator failure (claim store or vehicle
// store). The operation that failed is named so callers can tell a failed
// claim write from a failed label write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("booking: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
