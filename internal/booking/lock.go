package booking

import (
	"context"
	"sync"
)

// vehicleLocks hands out one exclusive section per vehicle id. Admissions
// and transitions for the same vehicle serialize on it while different
// vehicles proceed in parallel; a single global lock would defeat
// throughput, so the map only guards lock creation.
type vehicleLocks struct {
	mu    sync.Mutex
	slots map[int]chan struct{}
}

func newVehicleLocks() *vehicleLocks {
	return &vehicleLocks{slots: make(map[int]chan struct{})}
}

func (l *vehicleLocks) slot(vehicleID int) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[vehicleID]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[vehicleID] = s
	}
	return s
}

// acquire blocks until the vehicle's section is free or ctx expires.
// On expiry it returns ErrBusy and nothing is held.
func (l *vehicleLocks) acquire(ctx context.Context, vehicleID int) error {
	select {
	case l.slot(vehicleID) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ErrBusy
	}
}

func (l *vehicleLocks) release(vehicleID int) {
	<-l.slot(vehicleID)
}
