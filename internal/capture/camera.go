// Package capture provides video frame sources backed by GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultFPS    = 15
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when trying to read from a source that is not started.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrFrameSourceUnavailable is returned when a source cannot be started,
	// e.g. the device is missing or access was denied.
	ErrFrameSourceUnavailable = errors.New("frame source unavailable")

	// ErrNoFrame is returned when the source is running but has no frame ready.
	ErrNoFrame = errors.New("no frame available")
)

// Source is a video frame source with a start/stop lifecycle.
type Source interface {
	// Start begins capturing. Failure wraps ErrFrameSourceUnavailable.
	Start() error
	// Stop releases the device. Stopping a stopped source is a no-op.
	Stop() error
	// ReadFrame returns the next frame; the caller must Close it.
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsRunning() bool
}

// camera manages video capture from a camera device using GoCV.
type camera struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      int
}

// NewCamera creates a new Source reading from the given device ID.
func NewCamera(deviceID int) Source {
	return &camera{
		deviceID: deviceID,
		fps:      DefaultFPS,
	}
}

// Start opens the camera at 640x480.
func (c *camera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %v: %w", c.deviceID, err, ErrFrameSourceUnavailable)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("open camera %d: %w", c.deviceID, ErrFrameSourceUnavailable)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = capture
	c.running = true

	return nil
}

// Stop closes the camera and releases resources.
func (c *camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *camera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrNoFrame
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *camera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *camera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsRunning returns true if the camera is currently capturing.
func (c *camera) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
