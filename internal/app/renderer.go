package app

import (
	"log"
	"strings"
	"sync"

	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
)

// Renderer receives the visible outputs of the session. Implementations
// must not block; they are called on the pipeline goroutine.
type Renderer interface {
	OnActiveCellChanged(cell gesture.Cell)
	OnCandidatesChanged(items []string, selected int)
	OnTextCommitted(text string)
	OnMouthDebugSignal(openness float64, isOpen bool)
	OnSpellingChanged(spelling string)
}

// MouthSignal is the per-frame mouth diagnostic.
type MouthSignal struct {
	Openness float64 `json:"openness"`
	IsOpen   bool    `json:"is_open"`
}

// RenderCommands is what a single frame (or command) changed. Nil fields
// did not change.
type RenderCommands struct {
	ActiveCell *gesture.Cell
	Candidates *ime.CandidateSet
	Text       *string
	Spelling   *string
	Mouth      *MouthSignal
	Signals    *gesture.FaceSignals
}

// Empty reports whether there is nothing to render.
func (c RenderCommands) Empty() bool {
	return c.ActiveCell == nil && c.Candidates == nil && c.Text == nil &&
		c.Spelling == nil && c.Mouth == nil && c.Signals == nil
}

// Apply delivers the commands to r.
func (c RenderCommands) Apply(r Renderer) {
	if r == nil {
		return
	}
	if c.Spelling != nil {
		r.OnSpellingChanged(*c.Spelling)
	}
	if c.Candidates != nil {
		r.OnCandidatesChanged(c.Candidates.Items, c.Candidates.Selected)
	}
	if c.Text != nil {
		r.OnTextCommitted(*c.Text)
	}
	if c.ActiveCell != nil {
		r.OnActiveCellChanged(*c.ActiveCell)
	}
	if c.Mouth != nil {
		r.OnMouthDebugSignal(c.Mouth.Openness, c.Mouth.IsOpen)
	}
}

// MultiRenderer fans render calls out to several renderers.
type MultiRenderer struct {
	mu        sync.RWMutex
	renderers []Renderer
}

// NewMultiRenderer creates a MultiRenderer over the given renderers.
func NewMultiRenderer(renderers ...Renderer) *MultiRenderer {
	m := &MultiRenderer{}
	for _, r := range renderers {
		m.Add(r)
	}
	return m
}

// Add registers another renderer. Nil renderers are ignored.
func (m *MultiRenderer) Add(r Renderer) {
	if r == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renderers = append(m.renderers, r)
}

func (m *MultiRenderer) each(fn func(Renderer)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.renderers {
		fn(r)
	}
}

func (m *MultiRenderer) OnActiveCellChanged(cell gesture.Cell) {
	m.each(func(r Renderer) { r.OnActiveCellChanged(cell) })
}

func (m *MultiRenderer) OnCandidatesChanged(items []string, selected int) {
	m.each(func(r Renderer) { r.OnCandidatesChanged(items, selected) })
}

func (m *MultiRenderer) OnTextCommitted(text string) {
	m.each(func(r Renderer) { r.OnTextCommitted(text) })
}

func (m *MultiRenderer) OnMouthDebugSignal(openness float64, isOpen bool) {
	m.each(func(r Renderer) { r.OnMouthDebugSignal(openness, isOpen) })
}

func (m *MultiRenderer) OnSpellingChanged(spelling string) {
	m.each(func(r Renderer) { r.OnSpellingChanged(spelling) })
}

// LogRenderer writes render events to the standard logger. Mouth signals
// arrive every frame, so only open/close flips are logged.
type LogRenderer struct {
	wasOpen bool
}

// NewLogRenderer creates a LogRenderer.
func NewLogRenderer() *LogRenderer {
	return &LogRenderer{}
}

func (l *LogRenderer) OnActiveCellChanged(cell gesture.Cell) {
	log.Printf("Active cell: %d (%s)", cell, ime.Label(cell))
}

func (l *LogRenderer) OnCandidatesChanged(items []string, selected int) {
	if len(items) == 0 {
		log.Println("Candidates cleared")
		return
	}
	log.Printf("Candidates: %s (selected %d)", strings.Join(items, " "), selected)
}

func (l *LogRenderer) OnTextCommitted(text string) {
	log.Printf("Committed text: %q", text)
}

func (l *LogRenderer) OnMouthDebugSignal(openness float64, isOpen bool) {
	if isOpen == l.wasOpen {
		return
	}
	l.wasOpen = isOpen
	state := gesture.MouthClosed
	if isOpen {
		state = gesture.MouthOpen
	}
	log.Printf("Mouth %s (openness %.3f)", state, openness)
}

func (l *LogRenderer) OnSpellingChanged(spelling string) {
	log.Printf("Spelling: %q", spelling)
}
