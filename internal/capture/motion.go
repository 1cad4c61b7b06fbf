package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion detection constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
)

// MotionGate decides whether the scene is active enough to run face
// detection. It differences consecutive blurred grayscale frames and stays
// active for IdleTimeout after the last frame with motion.
type MotionGate struct {
	threshold   float64
	idleTimeout time.Duration

	mu          sync.Mutex
	prevGray    gocv.Mat
	initialized bool
	active      bool
	lastMotion  time.Time
}

// NewMotionGate creates a gate. threshold is the percentage of pixels that
// must change between frames to count as motion (1.0 means 1%).
func NewMotionGate(threshold float64, idleTimeout time.Duration) *MotionGate {
	return &MotionGate{
		threshold:   threshold,
		idleTimeout: idleTimeout,
		prevGray:    gocv.NewMat(),
	}
}

// Observe feeds a frame captured at now. It returns whether the gate is
// active after this frame and whether the active state changed.
func (m *MotionGate) Observe(frame *gocv.Mat, now time.Time) (active, changed bool) {
	moved, _ := m.Detect(frame)

	m.mu.Lock()
	defer m.mu.Unlock()

	wasActive := m.active
	if moved {
		m.lastMotion = now
		m.active = true
	} else if m.active && now.Sub(m.lastMotion) > m.idleTimeout {
		m.active = false
	}

	return m.active, m.active != wasActive
}

// Detect analyzes a frame for motion compared to the previous frame.
// Returns whether motion was detected and the percentage of pixels that changed.
// The first frame only establishes the baseline.
func (m *MotionGate) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized || blurred.Rows() != m.prevGray.Rows() || blurred.Cols() != m.prevGray.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&m.prevGray)

	return changePercent > m.threshold, changePercent
}

// Active reports whether the gate is currently open.
func (m *MotionGate) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Reset drops the baseline frame and closes the gate.
func (m *MotionGate) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
	m.active = false
}

// Close releases resources used by the gate.
func (m *MotionGate) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
	m.active = false
}
