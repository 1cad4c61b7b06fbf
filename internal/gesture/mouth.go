package gesture

import "time"

// MouthState is the debounced state of the mouth.
type MouthState int

const (
	// MouthClosed is the initial state.
	MouthClosed MouthState = iota
	// MouthOpen is entered when openness rises above the open threshold.
	MouthOpen
)

// String returns a human-readable name for the state.
func (s MouthState) String() string {
	switch s {
	case MouthOpen:
		return "open"
	default:
		return "closed"
	}
}

// Mouth debouncer defaults.
const (
	DefaultOpenThreshold  = 0.035
	DefaultCloseThreshold = 0.025
	DefaultCooldown       = 500 * time.Millisecond
)

// MouthDebouncer turns a stream of mouth openness samples into confirm
// events, one per clean open→close cycle.
//
// Opening is accepted immediately. Closing requires openness to fall below a
// lower threshold and the cooldown to have elapsed since the mouth opened;
// the open timestamp is not reset on close, so the cooldown is always
// measured from the opening moment.
type MouthDebouncer struct {
	OpenThreshold  float64
	CloseThreshold float64
	Cooldown       time.Duration

	state          MouthState
	lastTransition time.Time
}

// NewMouthDebouncer creates a debouncer in the closed state.
func NewMouthDebouncer(openThreshold, closeThreshold float64, cooldown time.Duration) *MouthDebouncer {
	return &MouthDebouncer{
		OpenThreshold:  openThreshold,
		CloseThreshold: closeThreshold,
		Cooldown:       cooldown,
		state:          MouthClosed,
	}
}

// Update feeds one openness sample taken at now. It performs at most one
// transition and returns true exactly when the mouth closes, which is the
// confirm event.
func (m *MouthDebouncer) Update(openness float64, now time.Time) bool {
	switch m.state {
	case MouthClosed:
		if openness > m.OpenThreshold {
			m.state = MouthOpen
			m.lastTransition = now
		}
		return false

	case MouthOpen:
		if openness < m.CloseThreshold && now.Sub(m.lastTransition) > m.Cooldown {
			m.state = MouthClosed
			return true
		}
	}
	return false
}

// State returns the current mouth state.
func (m *MouthDebouncer) State() MouthState {
	return m.state
}

// IsOpen reports whether the mouth is currently considered open.
func (m *MouthDebouncer) IsOpen() bool {
	return m.state == MouthOpen
}

// LastTransition returns the time the mouth last opened.
func (m *MouthDebouncer) LastTransition() time.Time {
	return m.lastTransition
}

// Reset returns the debouncer to the closed state.
func (m *MouthDebouncer) Reset() {
	m.state = MouthClosed
	m.lastTransition = time.Time{}
}
