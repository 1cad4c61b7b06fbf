package app

import (
	"reflect"
	"testing"

	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
)

func TestRenderCommands_Apply(t *testing.T) {
	cell := gesture.Cell(6)
	text := "你"
	spelling := ""

	cmds := RenderCommands{
		ActiveCell: &cell,
		Candidates: &ime.CandidateSet{},
		Text:       &text,
		Spelling:   &spelling,
		Mouth:      &MouthSignal{Openness: 0.01},
	}

	rec := &recordingRenderer{}
	cmds.Apply(rec)

	want := []string{"spelling:", "candidates:[]:0", "text:你", "cell:6"}
	if got := rec.Events(); !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestRenderCommands_Empty(t *testing.T) {
	if !(RenderCommands{}).Empty() {
		t.Error("zero RenderCommands should be empty")
	}
	text := ""
	if (RenderCommands{Text: &text}).Empty() {
		t.Error("commands with text should not be empty")
	}

	// applying empty commands or a nil renderer is a no-op
	RenderCommands{}.Apply(nil)
	rec := &recordingRenderer{}
	RenderCommands{}.Apply(rec)
	if len(rec.Events()) != 0 {
		t.Errorf("empty commands rendered %v", rec.Events())
	}
}

func TestMultiRenderer(t *testing.T) {
	a, b := &recordingRenderer{}, &recordingRenderer{}
	m := NewMultiRenderer(a, nil)
	m.Add(b)
	m.Add(nil)

	m.OnActiveCellChanged(2)
	m.OnSpellingChanged("d")
	m.OnCandidatesChanged([]string{"的"}, 0)
	m.OnTextCommitted("的")
	m.OnMouthDebugSignal(0.04, true)

	want := []string{"cell:2", "spelling:d", "candidates:[的]:0", "text:的"}
	for name, r := range map[string]*recordingRenderer{"a": a, "b": b} {
		if got := r.Events(); !reflect.DeepEqual(got, want) {
			t.Errorf("%s events = %v, want %v", name, got, want)
		}
	}
}

func TestLogRenderer_MouthFlips(t *testing.T) {
	l := NewLogRenderer()

	l.OnMouthDebugSignal(0.01, false)
	if l.wasOpen {
		t.Error("closed signal should leave wasOpen false")
	}
	l.OnMouthDebugSignal(0.05, true)
	if !l.wasOpen {
		t.Error("open signal should set wasOpen")
	}
	l.OnMouthDebugSignal(0.02, false)
	if l.wasOpen {
		t.Error("close signal should clear wasOpen")
	}

	// the rest only log
	l.OnActiveCellChanged(4)
	l.OnCandidatesChanged(nil, 0)
	l.OnCandidatesChanged([]string{"你"}, 0)
	l.OnTextCommitted("你")
	l.OnSpellingChanged("jj")
}
