package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/ayusman/headtype/internal/detector"
	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
)

// cellOffsets places the nose inside each keypad cell's sector.
var cellOffsets = [gesture.NumCells][2]float64{
	0: {0.1, -0.1},
	1: {0, -0.1},
	2: {-0.1, -0.1},
	3: {0.1, 0},
	4: {0, 0},
	5: {-0.1, 0},
	6: {0.1, 0.1},
	7: {0, 0.1},
	8: {-0.1, 0.1},
}

// faceAt returns a face looking toward cell with the given mouth openness.
func faceAt(cell gesture.Cell, openness float64) *detector.FaceLandmarks {
	off := cellOffsets[cell]
	return detector.WithMouthOpenness(detector.TurnedFace(off[0], off[1]), openness)
}

const (
	closedMouth = 0.0
	openMouth   = 0.05
)

// testDictionary is reachable with designated letters only.
func testDictionary() ime.MapDictionary {
	return ime.MapDictionary{
		"a":  {"啊", "阿", "吖"},
		"jj": {"你", "尼", "呢"},
	}
}

func newTestSession() *Session {
	return NewSession(gesture.DefaultConfig(), detector.FaceMeshIndices(), testDictionary())
}

// typeCell looks at cell, opens the mouth and closes it after the cooldown.
// It returns the commands of the closing frame and the time after it.
func typeCell(s *Session, cell gesture.Cell, at time.Time) (RenderCommands, time.Time) {
	s.ProcessFrame(faceAt(cell, closedMouth), at)
	s.ProcessFrame(faceAt(cell, openMouth), at.Add(100*time.Millisecond))
	cmds := s.ProcessFrame(faceAt(cell, closedMouth), at.Add(700*time.Millisecond))
	return cmds, at.Add(time.Second)
}

// recordingRenderer records render calls as strings.
type recordingRenderer struct {
	mu     sync.Mutex
	events []string
	texts  []string
}

func (r *recordingRenderer) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingRenderer) OnActiveCellChanged(cell gesture.Cell) {
	r.add(fmt.Sprintf("cell:%d", cell))
}

func (r *recordingRenderer) OnCandidatesChanged(items []string, selected int) {
	r.add(fmt.Sprintf("candidates:%v:%d", items, selected))
}

func (r *recordingRenderer) OnTextCommitted(text string) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
	r.add("text:" + text)
}

func (r *recordingRenderer) OnMouthDebugSignal(openness float64, isOpen bool) {}

func (r *recordingRenderer) OnSpellingChanged(spelling string) {
	r.add("spelling:" + spelling)
}

func (r *recordingRenderer) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recordingRenderer) LastText() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}
