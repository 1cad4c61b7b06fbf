package app

import (
	"time"

	"github.com/ayusman/headtype/internal/detector"
	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
)

// Session holds all typing state for one user in front of one camera:
// the active cell, the mouth debouncer and the input method. It is not
// safe for concurrent use; App serializes access.
type Session struct {
	config     gesture.Config
	indices    detector.LandmarkIndices
	classifier *gesture.Classifier
	mouth      *gesture.MouthDebouncer
	machine    *ime.Machine
	active     gesture.Cell
	signals    *gesture.FaceSignals
	lastFrame  time.Time
}

// Snapshot is a consistent copy of the session state taken between frames.
type Snapshot struct {
	ActiveCell gesture.Cell         `json:"active_cell"`
	State      string               `json:"state"`
	Spelling   string               `json:"spelling"`
	Candidates ime.CandidateSet     `json:"candidates"`
	Committed  string               `json:"committed"`
	MouthOpen  bool                 `json:"mouth_open"`
	Signals    *gesture.FaceSignals `json:"signals,omitempty"`
	LastFrame  time.Time            `json:"last_frame"`
}

// NewSession creates a session with no active cell, a closed mouth and an
// idle input method.
func NewSession(config gesture.Config, indices detector.LandmarkIndices, dict ime.Dictionary) *Session {
	return &Session{
		config:     config,
		indices:    indices,
		classifier: config.NewClassifier(),
		mouth:      config.NewMouthDebouncer(),
		machine:    ime.NewMachine(dict),
		active:     gesture.NoCell,
	}
}

// ProcessFrame runs one detection result through the pipeline. A nil face
// (or one missing the required landmarks) leaves all state untouched.
//
// A confirm is applied to the cell that was active before this frame's
// head direction is classified.
func (s *Session) ProcessFrame(face *detector.FaceLandmarks, now time.Time) RenderCommands {
	var cmds RenderCommands
	if face == nil || !face.Covers(s.indices) {
		return cmds
	}
	s.lastFrame = now

	signals := gesture.Extract(face, s.indices)
	s.signals = &signals
	cmds.Signals = &signals

	confirm := s.mouth.Update(signals.MouthOpenness, now)
	cmds.Mouth = &MouthSignal{Openness: signals.MouthOpenness, IsOpen: s.mouth.IsOpen()}

	if confirm {
		s.collect(&cmds, s.machine.Confirm(s.active))
	}

	cell := s.classifier.Classify(signals.AngleDegrees, signals.Magnitude)
	if cell != s.active {
		s.active = cell
		cmds.ActiveCell = &cell
	}

	return cmds
}

// collect copies the outputs named by change into cmds.
func (s *Session) collect(cmds *RenderCommands, change ime.Change) {
	if change.Spelling {
		spelling := s.machine.Spelling()
		cmds.Spelling = &spelling
	}
	if change.Candidates {
		candidates := s.machine.Candidates()
		cmds.Candidates = &candidates
	}
	if change.Committed {
		text := s.machine.Committed()
		cmds.Text = &text
	}
}

// Reset abandons the current spelling and candidates. Committed text and
// the active cell are kept.
func (s *Session) Reset() RenderCommands {
	var cmds RenderCommands
	s.collect(&cmds, s.machine.Reset())
	return cmds
}

// NextCandidate moves the candidate cursor forward, wrapping around.
func (s *Session) NextCandidate() RenderCommands {
	var cmds RenderCommands
	s.collect(&cmds, s.machine.NextCandidate())
	return cmds
}

// SelectCandidate moves the candidate cursor to index i.
func (s *Session) SelectCandidate(i int) RenderCommands {
	var cmds RenderCommands
	s.collect(&cmds, s.machine.SelectCandidate(i))
	return cmds
}

// SetConfig swaps the thresholds. The mouth state is carried over so a
// mouth that is open stays open.
func (s *Session) SetConfig(config gesture.Config) {
	s.config = config
	s.classifier = config.NewClassifier()
	s.mouth.OpenThreshold = config.OpenThreshold
	s.mouth.CloseThreshold = config.CloseThreshold
	s.mouth.Cooldown = config.Cooldown
}

// Config returns the thresholds in use.
func (s *Session) Config() gesture.Config {
	return s.config
}

// SetDictionary replaces the dictionary used for later lookups.
func (s *Session) SetDictionary(dict ime.Dictionary) {
	s.machine.SetDictionary(dict)
}

// ActiveCell returns the highlighted cell, or NoCell before the first face.
func (s *Session) ActiveCell() gesture.Cell {
	return s.active
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ActiveCell: s.active,
		State:      s.machine.State().Name(),
		Spelling:   s.machine.Spelling(),
		Candidates: s.machine.Candidates(),
		Committed:  s.machine.Committed(),
		MouthOpen:  s.mouth.IsOpen(),
		LastFrame:  s.lastFrame,
	}
	if s.signals != nil {
		signals := *s.signals
		snap.Signals = &signals
	}
	return snap
}
