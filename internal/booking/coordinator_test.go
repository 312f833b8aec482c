package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClaimStore is an in-memory ClaimStore. loadDelay widens the
// check-then-persist window so races actually interleave.
type fakeClaimStore struct {
	mu        sync.Mutex
	nextID    int
	claims    map[int][]Claim
	loadDelay time.Duration
	createErr error
	loadErr   error
}

func newFakeClaimStore() *fakeClaimStore {
	return &fakeClaimStore{claims: make(map[int][]Claim)}
}

func (s *fakeClaimStore) LoadClaims(_ context.Context, vehicleID int) ([]Claim, error) {
	s.mu.Lock()
	out := append([]Claim(nil), s.claims[vehicleID]...)
	err := s.loadErr
	s.mu.Unlock()
	if s.loadDelay > 0 {
		time.Sleep(s.loadDelay)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *fakeClaimStore) CreateClaim(_ context.Context, claim *Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	claim.ID = s.nextID
	s.claims[claim.VehicleID] = append(s.claims[claim.VehicleID], *claim)
	return nil
}

func (s *fakeClaimStore) UpdateClaimStatus(_ context.Context, claimID int, kind Kind, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for vid, claims := range s.claims {
		for i, c := range claims {
			if c.ID == claimID && c.Kind == kind {
				s.claims[vid][i].Status = status
				return nil
			}
		}
	}
	return fmt.Errorf("claim %d not found", claimID)
}

func (s *fakeClaimStore) blocking(vehicleID int) []Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Claim
	for _, c := range s.claims[vehicleID] {
		if c.Interval().Blocking() {
			out = append(out, c)
		}
	}
	return out
}

type fakeVehicleStore struct {
	mu     sync.Mutex
	labels map[int]Availability
	setErr error
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{labels: make(map[int]Availability)}
}

func (s *fakeVehicleStore) SetAvailabilityLabel(_ context.Context, vehicleID int, label Availability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.labels[vehicleID] = label
	return nil
}

func (s *fakeVehicleStore) label(vehicleID int) Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels[vehicleID]
}

func testCoordinator(claims *fakeClaimStore, vehicles *fakeVehicleStore) *Coordinator {
	c := NewCoordinator(claims, vehicles, time.Second)
	c.Now = func() time.Time { return Date(2025, time.June, 10) }
	return c
}

func reservationClaim(vehicleID int, start, end time.Time) *Claim {
	return &Claim{
		VehicleID:  vehicleID,
		CustomerID: 7,
		Kind:       KindReservation,
		Start:      start,
		End:        end,
	}
}

func TestTryAdmitPersistsAndRelabels(t *testing.T) {
	store := newFakeClaimStore()
	vehicles := newFakeVehicleStore()
	coord := testCoordinator(store, vehicles)

	claim := reservationClaim(1, Date(2025, time.June, 10), Date(2025, time.June, 12))
	require.NoError(t, coord.TryAdmit(context.Background(), claim))

	assert.Equal(t, StatusConfirmed, claim.Status)
	assert.NotZero(t, claim.ID)
	assert.Equal(t, Reserved, vehicles.label(1), "label re-derived after admission")
}

func TestTryAdmitRejectsOverlap(t *testing.T) {
	store := newFakeClaimStore()
	vehicles := newFakeVehicleStore()
	coord := testCoordinator(store, vehicles)

	first := reservationClaim(1, Date(2025, time.July, 1), Date(2025, time.July, 5))
	require.NoError(t, coord.TryAdmit(context.Background(), first))

	second := reservationClaim(1, Date(2025, time.July, 5), Date(2025, time.July, 8))
	err := coord.TryAdmit(context.Background(), second)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.Interval(), conflict.Conflicting)
	assert.Len(t, store.blocking(1), 1, "rejected admission must not create a record")
}

func TestTryAdmitInvalidDuration(t *testing.T) {
	coord := testCoordinator(newFakeClaimStore(), newFakeVehicleStore())

	claim := reservationClaim(1, Date(2025, time.July, 5), Date(2025, time.July, 1))
	assert.ErrorIs(t, coord.TryAdmit(context.Background(), claim), ErrInvalidDuration)
}

func TestTryAdmitDifferentVehiclesDoNotConflict(t *testing.T) {
	store := newFakeClaimStore()
	coord := testCoordinator(store, newFakeVehicleStore())

	require.NoError(t, coord.TryAdmit(context.Background(),
		reservationClaim(1, Date(2025, time.July, 1), Date(2025, time.July, 5))))
	require.NoError(t, coord.TryAdmit(context.Background(),
		reservationClaim(2, Date(2025, time.July, 1), Date(2025, time.July, 5))))
}

func TestConcurrentAdmissionRace(t *testing.T) {
	store := newFakeClaimStore()
	store.loadDelay = 20 * time.Millisecond // widen the check->persist window
	coord := testCoordinator(store, newFakeVehicleStore())

	results := make(chan error, 2)
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			claim := reservationClaim(1, Date(2025, time.August, 1), Date(2025, time.August, 5))
			results <- coord.TryAdmit(context.Background(), claim)
		}()
	}
	close(start)

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		err := <-results
		if err == nil {
			successes++
			continue
		}
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		conflicts++
	}

	assert.Equal(t, 1, successes, "exactly one admission wins")
	assert.Equal(t, 1, conflicts, "the loser gets a conflict, not a race")
	assert.Len(t, store.blocking(1), 1, "store ends with exactly one blocking record")
}

func TestRandomConcurrentAdmissionsNeverOverlap(t *testing.T) {
	store := newFakeClaimStore()
	store.loadDelay = time.Millisecond
	coord := testCoordinator(store, newFakeVehicleStore())

	rng := rand.New(rand.NewSource(1))
	base := Date(2025, time.September, 1)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		startDay := rng.Intn(20)
		length := rng.Intn(5)
		wg.Add(1)
		go func(startDay, length int) {
			defer wg.Done()
			claim := reservationClaim(1,
				base.AddDate(0, 0, startDay),
				base.AddDate(0, 0, startDay+length))
			_ = coord.TryAdmit(context.Background(), claim)
		}(startDay, length)
	}
	wg.Wait()

	admitted := store.blocking(1)
	require.NotEmpty(t, admitted)
	for i := 0; i < len(admitted); i++ {
		for j := i + 1; j < len(admitted); j++ {
			assert.False(t, admitted[i].Interval().Overlaps(admitted[j].Interval()),
				"admitted blocking intervals %d and %d overlap", admitted[i].ID, admitted[j].ID)
		}
	}
}

func TestTryAdmitBusyOnLockTimeout(t *testing.T) {
	store := newFakeClaimStore()
	coord := testCoordinator(store, newFakeVehicleStore())
	coord.AcquireTimeout = 20 * time.Millisecond

	// Hold vehicle 1's section so the admission cannot get in.
	require.NoError(t, coord.locks.acquire(context.Background(), 1))
	defer coord.locks.release(1)

	claim := reservationClaim(1, Date(2025, time.July, 1), Date(2025, time.July, 2))
	err := coord.TryAdmit(context.Background(), claim)

	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, store.blocking(1), "a timed-out request mutates nothing")
}

func TestTransitionLifecycles(t *testing.T) {
	tests := []struct {
		kind  Kind
		path  []string
		bad   string // illegal target from the final status
	}{
		{KindRental, []string{StatusActive, StatusCompleted}, StatusActive},
		{KindReservation, []string{StatusFulfilled, StatusCompleted}, StatusCancelled},
		{KindMaintenance, []string{StatusInProgress, StatusCompleted}, StatusInProgress},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			store := newFakeClaimStore()
			coord := testCoordinator(store, newFakeVehicleStore())

			claim := &Claim{VehicleID: 1, Kind: tc.kind,
				Start: Date(2025, time.June, 9), End: Date(2025, time.June, 11)}
			require.NoError(t, coord.TryAdmit(context.Background(), claim))

			for _, next := range tc.path {
				require.NoError(t, coord.Transition(context.Background(), 1, claim.ID, next))
			}

			err := coord.Transition(context.Background(), 1, claim.ID, tc.bad)
			var te *TransitionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, StatusCompleted, te.From)
		})
	}
}

func TestTransitionRelabelsOnBlockingChange(t *testing.T) {
	store := newFakeClaimStore()
	vehicles := newFakeVehicleStore()
	coord := testCoordinator(store, vehicles)

	claim := &Claim{VehicleID: 1, Kind: KindMaintenance,
		Start: Date(2025, time.June, 9), End: Date(2025, time.June, 11)}
	require.NoError(t, coord.TryAdmit(context.Background(), claim))
	assert.Equal(t, Available, vehicles.label(1), "scheduled maintenance does not block")

	require.NoError(t, coord.Transition(context.Background(), 1, claim.ID, StatusInProgress))
	assert.Equal(t, InMaintenance, vehicles.label(1))

	require.NoError(t, coord.Transition(context.Background(), 1, claim.ID, StatusCompleted))
	assert.Equal(t, Available, vehicles.label(1))
}

func TestTransitionIntoBlockingSetRechecksConflicts(t *testing.T) {
	store := newFakeClaimStore()
	coord := testCoordinator(store, newFakeVehicleStore())

	// Two pending rentals over the same dates may coexist; only one of them
	// can be activated.
	first := &Claim{VehicleID: 1, Kind: KindRental,
		Start: Date(2025, time.June, 9), End: Date(2025, time.June, 11)}
	second := &Claim{VehicleID: 1, Kind: KindRental,
		Start: Date(2025, time.June, 10), End: Date(2025, time.June, 12)}
	require.NoError(t, coord.TryAdmit(context.Background(), first))
	require.NoError(t, coord.TryAdmit(context.Background(), second))

	require.NoError(t, coord.Transition(context.Background(), 1, first.ID, StatusActive))

	err := coord.Transition(context.Background(), 1, second.ID, StatusActive)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Len(t, store.blocking(1), 1)
}

func TestTransitionUnknownClaim(t *testing.T) {
	coord := testCoordinator(newFakeClaimStore(), newFakeVehicleStore())
	err := coord.Transition(context.Background(), 1, 99, StatusActive)
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

func TestPersistenceFailuresAreWrapped(t *testing.T) {
	store := newFakeClaimStore()
	vehicles := newFakeVehicleStore()
	coord := testCoordinator(store, vehicles)

	store.loadErr = errors.New("connection reset")
	err := coord.TryAdmit(context.Background(),
		reservationClaim(1, Date(2025, time.June, 10), Date(2025, time.June, 12)))
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "load claims", pe.Op)
	store.loadErr = nil

	// Claim write succeeds but the label write fails: the coordinator must
	// not report a clean success, and a later refresh repairs the label.
	vehicles.setErr = errors.New("write failed")
	err = coord.TryAdmit(context.Background(),
		reservationClaim(1, Date(2025, time.June, 10), Date(2025, time.June, 12)))
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "set availability label", pe.Op)

	vehicles.setErr = nil
	label, err := coord.RefreshAvailability(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Reserved, label)
	assert.Equal(t, Reserved, vehicles.label(1))
}
