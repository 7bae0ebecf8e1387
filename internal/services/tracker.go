package services

import (
	"fmt"
	"sync"

	"odolog/internal/core"
)

// TrackingState is a snapshot of the manual distance tracker.
type TrackingState struct {
	Active        bool  `json:"active"`
	StartOdoKm    int64 `json:"startOdoKm"`
	AccumulatedKm int64 `json:"accumulatedKm"`
}

// CurrentOdoKm is the odometer the trip would commit if stopped now.
func (s TrackingState) CurrentOdoKm() int64 {
	return s.StartOdoKm + s.AccumulatedKm
}

// Tracker accumulates manually entered distance on top of a starting
// odometer. It is either idle or tracking.
type Tracker struct {
	mu    sync.Mutex
	state TrackingState
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Start captures the starting odometer and resets the accumulated distance.
func (t *Tracker) Start(currentOdoKm int64) (TrackingState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Active {
		return t.state, core.ErrTrackingActive
	}
	t.state = TrackingState{Active: true, StartOdoKm: currentOdoKm}
	return t.state, nil
}

func (t *Tracker) AddDistance(km int64) (TrackingState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.Active {
		return t.state, core.ErrNotTracking
	}
	if km <= 0 {
		return t.state, &core.ValidationError{Field: "km", Message: "must be greater than zero", Err: core.ErrInvalidDistance}
	}
	if km > core.MaxKm-t.state.CurrentOdoKm() {
		return t.state, &core.ValidationError{
			Field:   "km",
			Message: fmt.Sprintf("odometer would exceed %d", core.MaxKm),
			Err:     core.ErrInvalidDistance,
		}
	}
	t.state.AccumulatedKm += km
	return t.state, nil
}

// Stop returns to idle. The returned state is the finished trip; its
// odometer should be committed only when AccumulatedKm > 0.
func (t *Tracker) Stop() (TrackingState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.Active {
		return t.state, core.ErrNotTracking
	}
	finished := t.state
	finished.Active = false
	t.state = TrackingState{}
	return finished, nil
}

func (t *Tracker) State() TrackingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
