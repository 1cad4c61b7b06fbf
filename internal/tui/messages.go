package tui

import (
	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/gesture"
)

// ActiveCellMsg reports a new highlighted cell.
type ActiveCellMsg struct {
	Cell gesture.Cell
}

// CandidatesMsg carries the candidate list and the selection.
type CandidatesMsg struct {
	Items    []string
	Selected int
}

// TextMsg carries the full committed text.
type TextMsg struct {
	Text string
}

// SpellingMsg carries the spelling buffer.
type SpellingMsg struct {
	Spelling string
}

// MouthMsg carries the per-frame mouth diagnostic.
type MouthMsg struct {
	Openness float64
	IsOpen   bool
}

// StatusMsg carries the pipeline status.
type StatusMsg struct {
	Status app.Status
}

// CommandErrorMsg reports a failed command such as a restart.
type CommandErrorMsg struct {
	Err error
}

// statusTickMsg triggers a status refresh.
type statusTickMsg struct{}

// eventsClosedMsg is sent when the bridge channel is closed.
type eventsClosedMsg struct{}
