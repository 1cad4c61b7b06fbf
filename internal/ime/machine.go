package ime

import (
	"strings"

	"github.com/ayusman/headtype/internal/gesture"
)

// State is the input method state. It is one of Idle, Spelling or
// CandidatesShown; no other combination of buffer and candidates exists.
type State interface {
	// Name returns the state name for display and logging.
	Name() string

	isState()
}

// Idle has an empty spelling buffer and no candidates.
type Idle struct{}

// Spelling is accumulating letters without a dictionary match yet.
type Spelling struct {
	Buffer string
}

// CandidatesShown holds a dictionary match. The buffer is frozen until a
// candidate is committed.
type CandidatesShown struct {
	Buffer   string
	Items    []string
	Selected int
}

func (Idle) Name() string            { return "idle" }
func (Spelling) Name() string        { return "spelling" }
func (CandidatesShown) Name() string { return "candidates" }

func (Idle) isState()            {}
func (Spelling) isState()        {}
func (CandidatesShown) isState() {}

// CandidateSet is the candidate list shown to the user.
type CandidateSet struct {
	Items    []string `json:"items"`
	Selected int      `json:"selected"`
}

// Change reports which outputs a transition touched.
type Change struct {
	Spelling   bool
	Candidates bool
	Committed  bool
}

// Any reports whether anything changed.
func (c Change) Any() bool {
	return c.Spelling || c.Candidates || c.Committed
}

// Machine is the input method state machine. It is not safe for concurrent
// use; callers serialize access.
type Machine struct {
	dict      Dictionary
	state     State
	committed strings.Builder
}

// NewMachine creates a Machine in the Idle state.
func NewMachine(dict Dictionary) *Machine {
	if dict == nil {
		dict = MapDictionary{}
	}
	return &Machine{
		dict:  dict,
		state: Idle{},
	}
}

// SetDictionary replaces the dictionary used for subsequent lookups.
func (m *Machine) SetDictionary(dict Dictionary) {
	if dict == nil {
		dict = MapDictionary{}
	}
	m.dict = dict
}

// Confirm applies a confirm gesture made while cell was active.
// Confirms on an invalid cell are ignored.
func (m *Machine) Confirm(cell gesture.Cell) Change {
	if !cell.Valid() {
		return Change{}
	}

	switch s := m.state.(type) {
	case CandidatesShown:
		m.committed.WriteString(s.Items[s.Selected])
		m.state = Idle{}
		return Change{Spelling: true, Candidates: true, Committed: true}

	case Idle:
		if cell == gesture.SymbolCell {
			m.committed.WriteString(Symbol(cell))
			return Change{Committed: true}
		}
		return m.spell(Letter(cell))

	case Spelling:
		if cell == gesture.SymbolCell {
			// Finalize: look up the buffer as-is. A miss leaves it untouched.
			return m.lookup(s.Buffer)
		}
		return m.spell(s.Buffer + Letter(cell))
	}

	return Change{}
}

// spell sets the buffer and attempts a lookup on it.
func (m *Machine) spell(buffer string) Change {
	m.state = Spelling{Buffer: buffer}
	change := m.lookup(buffer)
	change.Spelling = true
	return change
}

// lookup moves to CandidatesShown when the dictionary has an entry for buffer.
func (m *Machine) lookup(buffer string) Change {
	items := m.dict.Lookup(buffer)
	if len(items) == 0 {
		return Change{}
	}

	owned := make([]string, len(items))
	copy(owned, items)
	m.state = CandidatesShown{Buffer: buffer, Items: owned}
	return Change{Candidates: true}
}

// SelectCandidate moves the candidate cursor to index i. It is a no-op
// unless candidates are shown and i is in range.
func (m *Machine) SelectCandidate(i int) Change {
	s, ok := m.state.(CandidatesShown)
	if !ok || i < 0 || i >= len(s.Items) || i == s.Selected {
		return Change{}
	}
	s.Selected = i
	m.state = s
	return Change{Candidates: true}
}

// NextCandidate advances the candidate cursor, wrapping at the end.
func (m *Machine) NextCandidate() Change {
	s, ok := m.state.(CandidatesShown)
	if !ok || len(s.Items) < 2 {
		return Change{}
	}
	return m.SelectCandidate((s.Selected + 1) % len(s.Items))
}

// Reset clears the spelling buffer and candidates. Committed text is kept.
func (m *Machine) Reset() Change {
	if _, ok := m.state.(Idle); ok {
		return Change{}
	}
	m.state = Idle{}
	return Change{Spelling: true, Candidates: true}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Spelling returns the in-progress spelling buffer.
func (m *Machine) Spelling() string {
	switch s := m.state.(type) {
	case Spelling:
		return s.Buffer
	case CandidatesShown:
		return s.Buffer
	}
	return ""
}

// Candidates returns the current candidate set. It is empty unless
// candidates are shown.
func (m *Machine) Candidates() CandidateSet {
	s, ok := m.state.(CandidatesShown)
	if !ok {
		return CandidateSet{}
	}
	items := make([]string, len(s.Items))
	copy(items, s.Items)
	return CandidateSet{Items: items, Selected: s.Selected}
}

// Committed returns all text committed so far.
func (m *Machine) Committed() string {
	return m.committed.String()
}
