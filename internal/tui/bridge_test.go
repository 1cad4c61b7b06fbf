package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
)

func TestBridge_Order(t *testing.T) {
	b := NewBridge(8)

	cell := gesture.Cell(4)
	candidates := ime.CandidateSet{Items: []string{"你", "尼", "呢"}}
	text := "你"
	spelling := ""
	app.RenderCommands{
		ActiveCell: &cell,
		Candidates: &candidates,
		Text:       &text,
		Spelling:   &spelling,
		Mouth:      &app.MouthSignal{Openness: 0.01},
	}.Apply(b)

	want := []string{"tui.SpellingMsg", "tui.CandidatesMsg", "tui.TextMsg", "tui.ActiveCellMsg", "tui.MouthMsg"}
	for i, w := range want {
		msg := <-b.Events()
		if got := typeName(msg); got != w {
			t.Errorf("message %d = %s, want %s", i, got, w)
		}
	}
}

func TestBridge_CopiesCandidates(t *testing.T) {
	b := NewBridge(1)
	items := []string{"啊", "阿"}
	b.OnCandidatesChanged(items, 0)
	items[0] = "changed"

	msg := (<-b.Events()).(CandidatesMsg)
	if msg.Items[0] != "啊" {
		t.Errorf("Items[0] = %q, want 啊", msg.Items[0])
	}
}

func TestBridge_DropsWhenFull(t *testing.T) {
	b := NewBridge(2)
	for i := 0; i < 5; i++ {
		b.OnMouthDebugSignal(float64(i), false)
	}
	if n := len(b.Events()); n != 2 {
		t.Errorf("buffered = %d, want 2", n)
	}
}

func TestBridge_Close(t *testing.T) {
	b := NewBridge(0)
	b.Close()
	b.Close()
	b.OnTextCommitted("ignored")

	msg := waitForEvent(b.Events())()
	if _, ok := msg.(eventsClosedMsg); !ok {
		t.Errorf("waitForEvent() = %T, want eventsClosedMsg", msg)
	}
}

func typeName(msg tea.Msg) string {
	switch msg.(type) {
	case SpellingMsg:
		return "tui.SpellingMsg"
	case CandidatesMsg:
		return "tui.CandidatesMsg"
	case TextMsg:
		return "tui.TextMsg"
	case ActiveCellMsg:
		return "tui.ActiveCellMsg"
	case MouthMsg:
		return "tui.MouthMsg"
	}
	return "unknown"
}
