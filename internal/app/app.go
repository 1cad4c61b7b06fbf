// Package app wires the camera, face detector and typing session into the
// running headtype service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/headtype/internal/capture"
	"github.com/ayusman/headtype/internal/detector"
	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
	"github.com/ayusman/headtype/internal/plugin"
	"github.com/ayusman/headtype/internal/store"
	"gocv.io/x/gocv"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate while the user is moving.
	ActiveFPS = 15
	// IdleTimeout is how long the pipeline stays active after the last motion.
	IdleTimeout = 2 * time.Second
	// MaxMissedFrames is how many empty reads in a row count as a lost camera.
	MaxMissedFrames = 30
	// PluginTimeoutMs bounds a single output plugin run.
	PluginTimeoutMs = 5000
)

// ErrPipelineFailed is returned by Start after a detector or frame source
// failure. Call Restart to recover.
var ErrPipelineFailed = errors.New("pipeline failed")

// State is the lifecycle state of the pipeline.
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateFailed  State = "failed"
)

// Status describes the pipeline for the tray and the HTTP API.
type Status struct {
	State   State  `json:"state"`
	Reason  string `json:"reason,omitempty"`
	Enabled bool   `json:"enabled"`
	Active  bool   `json:"active"`
	FPS     int    `json:"fps"`
}

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
	// PowerSave enables motion gating: while the scene is still and no
	// face is tracked, frames skip detection and the source drops to
	// IdleFPS. Off by default so every frame reaches the detector.
	PowerSave bool

	Gesture  gesture.Config
	Indices  detector.LandmarkIndices
	Detector detector.Config

	// Source and FaceDetector replace the camera and the MediaPipe
	// detector when set.
	Source       capture.Source
	FaceDetector detector.Detector
}

// DefaultConfig returns the configuration for the default camera with the
// FaceMesh landmark layout.
func DefaultConfig() Config {
	return Config{
		MotionThresh: 1.0,
		Gesture:      gesture.DefaultConfig(),
		Indices:      detector.FaceMeshIndices(),
		Detector:     detector.DefaultConfig(),
	}
}

// App runs the frame pipeline and owns the typing session.
type App struct {
	config Config
	source capture.Source
	motion *capture.MotionGate

	// tracking is set while the last detection found a face. fast is
	// whether the source runs at ActiveFPS; only the pipeline goroutine
	// and Start touch it.
	tracking atomic.Bool
	fast     bool

	// mu guards the lifecycle fields below.
	mu          sync.RWMutex
	detector    detector.Detector
	detectorErr error
	enabled     bool
	state       State
	reason      string
	stopCh      chan struct{}
	done        chan struct{}

	// sessionMu serializes every session mutation and the render calls
	// that follow it.
	sessionMu     sync.Mutex
	session       *Session
	renderers     *MultiRenderer
	lastCommitted string

	frameMu sync.Mutex
	latest  gocv.Mat

	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	dispatcher *plugin.Dispatcher
	cancel     context.CancelFunc
}

// New creates a new App. Stored settings and the stored dictionary are
// loaded when a Store is configured.
func New(config Config) *App {
	if config.MotionThresh <= 0 {
		config.MotionThresh = 1.0
	}
	if config.Gesture == (gesture.Config{}) {
		config.Gesture = gesture.DefaultConfig()
	}
	if config.Indices == (detector.LandmarkIndices{}) {
		config.Indices = detector.FaceMeshIndices()
	}

	if config.Store != nil {
		cfg, err := config.Store.Settings().GestureConfig(config.Gesture)
		if err != nil {
			log.Printf("Ignoring stored gesture settings: %v", err)
		} else {
			config.Gesture = cfg
		}
	}

	source := config.Source
	if source == nil {
		source = capture.NewCamera(config.CameraID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	pluginMgr := plugin.NewManager(config.PluginDir)
	pluginExec := plugin.NewExecutor(PluginTimeoutMs)

	a := &App{
		config:     config,
		source:     source,
		motion:     capture.NewMotionGate(config.MotionThresh, IdleTimeout),
		enabled:    true,
		state:      StateStopped,
		session:    NewSession(config.Gesture, config.Indices, nil),
		renderers:  NewMultiRenderer(NewLogRenderer()),
		latest:     gocv.NewMat(),
		pluginMgr:  pluginMgr,
		pluginExec: pluginExec,
		dispatcher: plugin.NewDispatcher(pluginMgr, pluginExec, plugin.DefaultQueueSize),
		cancel:     cancel,
	}
	a.dispatcher.Run(ctx)

	if config.FaceDetector != nil {
		a.detector = config.FaceDetector
	} else {
		a.loadDetector()
	}

	if err := a.ReloadDictionary(); err != nil {
		log.Printf("Failed to load dictionary: %v", err)
	}

	return a
}

// loadDetector tries to create the MediaPipe detector. A failure is kept
// and reported when the pipeline starts.
func (a *App) loadDetector() {
	mp, err := detector.NewMediaPipeDetector(a.config.Detector)
	if err != nil {
		log.Printf("MediaPipe not available: %v", err)
		a.detector = nil
		a.detectorErr = err
		return
	}
	log.Println("Using MediaPipe face mesh detection")
	a.detector = mp
	a.detectorErr = nil
}

// AddRenderer registers a renderer for session output.
func (a *App) AddRenderer(r Renderer) {
	a.renderers.Add(r)
}

// SetEnabled enables or disables typing. While disabled frames are still
// captured for the preview stream but not run through the detector.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether typing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Status returns the pipeline status.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Status{
		State:   a.state,
		Reason:  a.reason,
		Enabled: a.enabled,
		Active:  !a.config.PowerSave || a.motion.Active() || a.tracking.Load(),
		FPS:     a.source.FPS(),
	}
}

// ReloadDictionary reloads the dictionary from the store, or installs the
// built-in entries when there is no store.
func (a *App) ReloadDictionary() error {
	entries := ime.DefaultEntries()
	if a.config.Store != nil {
		loaded, err := a.config.Store.Dictionary().Load()
		if err != nil {
			return fmt.Errorf("load dictionary: %w", err)
		}
		entries = loaded
	}

	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	a.session.SetDictionary(ime.MapDictionary(entries))

	log.Printf("Loaded %d dictionary spellings", len(entries))
	return nil
}

// ApplySettings validates cfg, stores it when a Store is configured and
// applies it to the session.
func (a *App) ApplySettings(cfg gesture.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if a.config.Store != nil {
		if err := a.config.Store.Settings().SaveGestureConfig(cfg); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}

	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	a.session.SetConfig(cfg)
	return nil
}

// Settings returns the thresholds in use.
func (a *App) Settings() gesture.Config {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.session.Config()
}

// Snapshot returns a consistent copy of the session state.
func (a *App) Snapshot() Snapshot {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	return a.session.Snapshot()
}

// HandleFace runs one detection result through the session and delivers
// the outcome to renderers and plugins.
func (a *App) HandleFace(face *detector.FaceLandmarks, now time.Time) RenderCommands {
	return a.update(func(s *Session) RenderCommands {
		return s.ProcessFrame(face, now)
	})
}

// Reset abandons the current spelling and candidates.
func (a *App) Reset() RenderCommands {
	return a.update((*Session).Reset)
}

// NextCandidate advances the candidate cursor.
func (a *App) NextCandidate() RenderCommands {
	return a.update((*Session).NextCandidate)
}

// SelectCandidate moves the candidate cursor to index i.
func (a *App) SelectCandidate(i int) RenderCommands {
	return a.update(func(s *Session) RenderCommands {
		return s.SelectCandidate(i)
	})
}

func (a *App) update(fn func(*Session) RenderCommands) RenderCommands {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()

	cmds := fn(a.session)
	cmds.Apply(a.renderers)
	a.dispatch(cmds)
	return cmds
}

// dispatch forwards text changes to output plugins. Called with sessionMu held.
func (a *App) dispatch(cmds RenderCommands) {
	if cmds.Text != nil {
		full := *cmds.Text
		piece := strings.TrimPrefix(full, a.lastCommitted)
		a.lastCommitted = full
		if piece != "" {
			a.dispatcher.Send(&plugin.Request{Event: plugin.EventCommit, Text: piece, Committed: full})
		}
	}
	if cmds.Spelling != nil {
		a.dispatcher.Send(&plugin.Request{Event: plugin.EventSpelling, Text: *cmds.Spelling, Committed: a.lastCommitted})
	}
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startLocked()
}

func (a *App) startLocked() error {
	switch a.state {
	case StateRunning:
		return nil
	case StateFailed:
		return fmt.Errorf("%w: %s", ErrPipelineFailed, a.reason)
	}

	if a.detector == nil {
		err := a.detectorErr
		if err == nil {
			err = detector.ErrDetectorUnavailable
		}
		a.failLocked(err)
		return err
	}

	if err := a.source.Start(); err != nil {
		a.failLocked(err)
		return err
	}

	a.fast = !a.config.PowerSave
	if a.fast {
		a.source.SetFPS(ActiveFPS)
	} else {
		a.source.SetFPS(IdleFPS)
	}
	a.motion.Reset()
	a.tracking.Store(false)

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	a.state = StateRunning
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Detection pipeline started")
	return nil
}

// failLocked records a terminal pipeline failure.
func (a *App) failLocked(err error) {
	a.state = StateFailed
	a.reason = err.Error()
	log.Printf("Pipeline failed: %v", err)
}

// fail is called from the pipeline goroutine.
func (a *App) fail(err error) {
	a.mu.Lock()
	a.failLocked(err)
	a.mu.Unlock()

	if stopErr := a.source.Stop(); stopErr != nil {
		log.Printf("Error stopping frame source: %v", stopErr)
	}
}

// halt stops the pipeline goroutine and the frame source.
func (a *App) halt() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-done
	}

	if err := a.source.Stop(); err != nil {
		log.Printf("Error stopping frame source: %v", err)
	}
	a.motion.Reset()
	a.tracking.Store(false)
}

// Stop halts the pipeline. Session state is kept.
func (a *App) Stop() {
	a.halt()

	a.mu.Lock()
	if a.state != StateFailed {
		a.state = StateStopped
	}
	a.mu.Unlock()

	log.Println("Detection pipeline stopped")
}

// Pause stops capturing until Resume. Session state is kept.
func (a *App) Pause() {
	a.mu.RLock()
	running := a.state == StateRunning
	a.mu.RUnlock()
	if !running {
		return
	}

	a.halt()

	a.mu.Lock()
	if a.state == StateRunning {
		a.state = StatePaused
	}
	a.mu.Unlock()

	log.Println("Detection pipeline paused")
}

// Resume restarts capturing after Pause.
func (a *App) Resume() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StatePaused {
		return nil
	}
	a.state = StateStopped
	return a.startLocked()
}

// Restart clears a failure and starts the pipeline again. Session state,
// including committed text, is kept.
func (a *App) Restart() error {
	a.halt()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.state = StateStopped
	a.reason = ""
	if a.detector == nil && a.config.FaceDetector == nil {
		a.loadDetector()
	}

	log.Println("Restarting detection pipeline")
	return a.startLocked()
}

// Close stops the pipeline and releases the detector, plugins and buffers.
func (a *App) Close() {
	a.Stop()
	a.dispatcher.Close()
	a.cancel()
	a.motion.Close()

	a.mu.Lock()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
	a.mu.Unlock()

	a.frameMu.Lock()
	a.latest.Close()
	a.latest = gocv.NewMat()
	a.frameMu.Unlock()
}

// LatestFrame returns a copy of the most recent camera frame. The caller
// must Close it.
func (a *App) LatestFrame() (*gocv.Mat, error) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()

	if a.latest.Empty() {
		return nil, capture.ErrNoFrame
	}
	frame := a.latest.Clone()
	return &frame, nil
}

// Source returns the frame source.
func (a *App) Source() capture.Source {
	return a.source
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the face detector, or nil when none is available.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
