package server

import (
	"path/filepath"
	"testing"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/capture"
	"github.com/ayusman/headtype/internal/detector"
	"github.com/ayusman/headtype/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestApp creates an app over a mock source and detector. The pipeline
// is not started.
func newTestApp(t *testing.T) *app.App {
	t.Helper()
	return newTestAppWithStore(t, nil)
}

func newTestAppWithStore(t *testing.T, s *store.Store) *app.App {
	t.Helper()
	cfg := app.DefaultConfig()
	cfg.Store = s
	cfg.PluginDir = t.TempDir()
	cfg.Source = capture.NewMockSource(nil, true)
	cfg.FaceDetector = detector.NewMockDetector()

	a := app.New(cfg)
	t.Cleanup(a.Close)
	return a
}
