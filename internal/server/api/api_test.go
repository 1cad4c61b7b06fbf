package api

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
	"github.com/ayusman/headtype/internal/store"
)

// fakeApp records the commands the handlers issue.
type fakeApp struct {
	mu         sync.Mutex
	status     app.Status
	snapshot   app.Snapshot
	settings   gesture.Config
	calls      []string
	restartErr error
	reloads    int
}

func newFakeApp() *fakeApp {
	return &fakeApp{
		status:   app.Status{State: app.StateRunning, Enabled: true, FPS: 15},
		snapshot: app.Snapshot{ActiveCell: gesture.NoCell, State: "idle"},
		settings: gesture.DefaultConfig(),
	}
}

func (f *fakeApp) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeApp) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeApp) Status() app.Status     { return f.status }
func (f *fakeApp) Snapshot() app.Snapshot { return f.snapshot }

func (f *fakeApp) Reset() app.RenderCommands {
	f.record("reset")
	f.snapshot.State = "idle"
	f.snapshot.Spelling = ""
	f.snapshot.Candidates = ime.CandidateSet{}
	return app.RenderCommands{}
}

func (f *fakeApp) NextCandidate() app.RenderCommands {
	f.record("next-candidate")
	if n := len(f.snapshot.Candidates.Items); n > 0 {
		f.snapshot.Candidates.Selected = (f.snapshot.Candidates.Selected + 1) % n
	}
	return app.RenderCommands{}
}

func (f *fakeApp) SelectCandidate(i int) app.RenderCommands {
	f.record(fmt.Sprintf("select %d", i))
	f.snapshot.Candidates.Selected = i
	return app.RenderCommands{}
}

func (f *fakeApp) SetEnabled(enabled bool) {
	f.record(fmt.Sprintf("enabled %t", enabled))
	f.status.Enabled = enabled
}

func (f *fakeApp) Pause() {
	f.record("pause")
	f.status.State = app.StatePaused
}

func (f *fakeApp) Resume() error {
	f.record("resume")
	f.status.State = app.StateRunning
	return nil
}

func (f *fakeApp) Restart() error {
	f.record("restart")
	if f.restartErr != nil {
		f.status.State = app.StateFailed
		f.status.Reason = f.restartErr.Error()
		return f.restartErr
	}
	f.status.State = app.StateRunning
	f.status.Reason = ""
	return nil
}

func (f *fakeApp) Settings() gesture.Config { return f.settings }

func (f *fakeApp) ApplySettings(cfg gesture.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.settings = cfg
	return nil
}

func (f *fakeApp) ReloadDictionary() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

func (f *fakeApp) Reloads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

var errNoCamera = errors.New("camera 0 not available")

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
