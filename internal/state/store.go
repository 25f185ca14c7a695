package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/readaloud/internal/readaloud"
)

// Snapshot represents the latest backend status available to the UI.
type Snapshot struct {
	Connected           bool
	HasStatus           bool // a status reply has been received at least once
	EngineAvailable     bool
	Service             *readaloud.ServiceStatus
	LastChecked         time.Time
	LastError           error
	ConsecutiveFailures int
}

// ServiceState returns the three-way service state, and false when no
// service record has been reported yet.
func (s Snapshot) ServiceState() (readaloud.ServiceState, bool) {
	if s.Service == nil {
		return readaloud.ServiceStopped, false
	}
	return s.Service.State(), true
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the outcome of one status check. When err is non-nil the
// connection is marked down and the previous engine and service data are kept.
func (s *Store) Update(status *readaloud.StatusResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastChecked = time.Now()
	if err != nil || status == nil {
		if err == nil {
			err = fmt.Errorf("empty status reply")
		}
		s.snapshot.Connected = false
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Connected = true
	s.snapshot.HasStatus = true
	s.snapshot.EngineAvailable = status.HiggsAudio
	if status.Service != nil {
		svc := *status.Service
		s.snapshot.Service = &svc
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.Service != nil {
		svc := *s.snapshot.Service
		snap.Service = &svc
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
