// Package notify implements the panel's toast notifications: one visible
// toast at a time with a bounded queue of pending ones behind it.
package notify

// Severity classifies a toast.
type Severity int

const (
	Info Severity = iota
	Success
	Error
	Warning
)

// String returns the severity name used in logs and styles.
func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Icon returns the glyph shown in front of the toast text.
func (s Severity) Icon() string {
	switch s {
	case Success:
		return "✔"
	case Error:
		return "✖"
	case Warning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// Toast is a single notification.
type Toast struct {
	ID       uint64
	Text     string
	Severity Severity
}

// DefaultCapacity is the number of toasts that may wait behind the visible one.
const DefaultCapacity = 4

// Queue holds the visible toast and the pending ones.
//
// The owner schedules one expiry per shown toast and reports it back with
// Expire. Expiries for a toast that is no longer visible are ignored, so a
// late timer can never hide a newer toast.
type Queue struct {
	capacity int
	nextID   uint64
	current  *Toast
	pending  []Toast
	dropped  int
}

// NewQueue returns a queue that keeps at most capacity pending toasts.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{capacity: capacity}
}

// Push adds a toast. It returns the toast and true when it became visible
// immediately; the caller must then schedule its expiry. When the pending
// queue is full the oldest pending toast is dropped. A toast identical to the
// last visible or queued one is collapsed into it. A duplicate of the visible
// toast with nothing queued behind it gets a fresh ID and is returned as
// visible, so the caller restarts its expiry and the old timer goes stale.
func (q *Queue) Push(text string, severity Severity) (Toast, bool) {
	if q.duplicatesTail(text, severity) {
		if len(q.pending) == 0 {
			q.nextID++
			q.current.ID = q.nextID
			return *q.current, true
		}
		return Toast{}, false
	}

	q.nextID++
	t := Toast{ID: q.nextID, Text: text, Severity: severity}

	if q.current == nil {
		q.current = &t
		return t, true
	}

	if q.capacity == 0 {
		q.dropped++
		return Toast{}, false
	}
	if len(q.pending) >= q.capacity {
		q.pending = q.pending[1:]
		q.dropped++
	}
	q.pending = append(q.pending, t)
	return Toast{}, false
}

func (q *Queue) duplicatesTail(text string, severity Severity) bool {
	if n := len(q.pending); n > 0 {
		last := q.pending[n-1]
		return last.Text == text && last.Severity == severity
	}
	return q.current != nil && q.current.Text == text && q.current.Severity == severity
}

// Expire hides the toast with the given id. When another toast is pending it
// becomes visible and is returned with true; the caller schedules its expiry.
func (q *Queue) Expire(id uint64) (Toast, bool) {
	if q.current == nil || q.current.ID != id {
		return Toast{}, false
	}
	q.current = nil
	if len(q.pending) == 0 {
		return Toast{}, false
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.current = &next
	return next, true
}

// Current returns the visible toast, if any.
func (q *Queue) Current() (Toast, bool) {
	if q == nil || q.current == nil {
		return Toast{}, false
	}
	return *q.current, true
}

// Pending returns the number of toasts waiting to be shown.
func (q *Queue) Pending() int {
	if q == nil {
		return 0
	}
	return len(q.pending)
}

// Dropped returns how many toasts were discarded because the queue was full.
func (q *Queue) Dropped() int {
	if q == nil {
		return 0
	}
	return q.dropped
}
