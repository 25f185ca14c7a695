// Package loading models the loading modal shown while a long-running TTS
// action is in flight.
//
// Progress is cosmetic: the backend reports none, so a simulator advances
// the bar by a random amount every TickInterval and stops at Ceiling.
// Completion is only ever signalled by hiding the session.
package loading

import (
	"math/rand/v2"
	"time"
)

const (
	// TickInterval is the cadence of the progress simulation.
	TickInterval = 500 * time.Millisecond

	// Ceiling is the highest value the simulation reaches on its own.
	Ceiling = 90.0

	// MaxIncrement bounds a single random step, exclusive.
	MaxIncrement = 15.0
)

// StepLabels name the three step markers shown under the progress bar.
var StepLabels = [3]string{"Preparing text", "Generating speech", "Playing audio"}

var stepThresholds = [3]float64{20, 50, 80}

// Session is one open modal.
type Session struct {
	ID       uint64
	Title    string
	Message  string
	Progress float64 // percent, 0..Ceiling
	Steps    [3]bool
	running  bool
}

// Running reports whether the simulation timer is still active.
func (s Session) Running() bool {
	return s.running
}

// Modal owns at most one session. Each session gets a fresh ID and the
// simulation timer is tied to it: ticks for any other ID are ignored, so a
// hidden or superseded session never changes again.
type Modal struct {
	nextID  uint64
	session *Session
	random  func() float64
}

// NewModal returns a hidden modal. random must return values in [0,1); nil
// uses math/rand/v2.
func NewModal(random func() float64) *Modal {
	if random == nil {
		random = rand.Float64
	}
	return &Modal{random: random}
}

// Show opens a new session with progress reset and no active steps,
// replacing any session that is still open. It returns the session ID the
// caller uses to schedule ticks and to hide it.
func (m *Modal) Show(title, message string) uint64 {
	m.nextID++
	m.session = &Session{
		ID:      m.nextID,
		Title:   title,
		Message: message,
		running: true,
	}
	return m.nextID
}

// Tick advances the simulation for session id by a random increment. It
// returns true when another tick should be scheduled.
func (m *Modal) Tick(id uint64) bool {
	s := m.active(id)
	if s == nil || !s.running {
		return false
	}
	return m.advance(s, m.random()*MaxIncrement)
}

func (m *Modal) advance(s *Session, delta float64) bool {
	if delta < 0 {
		delta = 0
	}
	s.Progress += delta
	if s.Progress >= Ceiling {
		s.Progress = Ceiling
		s.running = false
	}
	for i, threshold := range stepThresholds {
		if s.Progress >= threshold {
			s.Steps[i] = true
		}
	}
	return s.running
}

// Hide closes session id and stops its timer. It returns false when that
// session is not the one on screen, including when it was already hidden.
func (m *Modal) Hide(id uint64) bool {
	if m.active(id) == nil {
		return false
	}
	m.session.running = false
	m.session = nil
	return true
}

// Visible reports whether a session is on screen.
func (m *Modal) Visible() bool {
	return m != nil && m.session != nil
}

// Current returns a copy of the open session.
func (m *Modal) Current() (Session, bool) {
	if !m.Visible() {
		return Session{}, false
	}
	return *m.session, true
}

func (m *Modal) active(id uint64) *Session {
	if m == nil || m.session == nil || m.session.ID != id {
		return nil
	}
	return m.session
}
