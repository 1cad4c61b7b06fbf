package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/gesture"
)

// DefaultBridgeSize is the event buffer of a Bridge.
const DefaultBridgeSize = 256

// Bridge turns renderer calls from the pipeline goroutine into bubbletea
// messages. Sends never block; when the buffer is full the message is
// dropped.
type Bridge struct {
	ch     chan tea.Msg
	mu     sync.RWMutex
	closed bool
}

var _ app.Renderer = (*Bridge)(nil)

// NewBridge creates a Bridge with a buffer of size messages.
func NewBridge(size int) *Bridge {
	if size <= 0 {
		size = DefaultBridgeSize
	}
	return &Bridge{ch: make(chan tea.Msg, size)}
}

// Events returns the message channel read by the model.
func (b *Bridge) Events() <-chan tea.Msg {
	return b.ch
}

// Close closes the message channel. Later renderer calls are ignored.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	select {
	case b.ch <- msg:
	default:
	}
}

func (b *Bridge) OnActiveCellChanged(cell gesture.Cell) {
	b.send(ActiveCellMsg{Cell: cell})
}

func (b *Bridge) OnCandidatesChanged(items []string, selected int) {
	owned := append([]string(nil), items...)
	b.send(CandidatesMsg{Items: owned, Selected: selected})
}

func (b *Bridge) OnTextCommitted(text string) {
	b.send(TextMsg{Text: text})
}

func (b *Bridge) OnMouthDebugSignal(openness float64, isOpen bool) {
	b.send(MouthMsg{Openness: openness, IsOpen: isOpen})
}

func (b *Bridge) OnSpellingChanged(spelling string) {
	b.send(SpellingMsg{Spelling: spelling})
}

// waitForEvent reads the next message from the bridge.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return msg
	}
}
