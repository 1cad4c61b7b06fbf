package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	faces []*FaceLandmarks
	next  int
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance that reports no face.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFace makes every subsequent Detect call return face. A nil face means
// no face is detected.
func (m *MockDetector) SetFace(face *FaceLandmarks) {
	m.SetSequence([]*FaceLandmarks{face})
}

// SetSequence makes Detect return the given results in order. Once the
// sequence is exhausted the last entry is repeated.
func (m *MockDetector) SetSequence(faces []*FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces = faces
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured face or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*FaceLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.faces) == 0 {
		return nil, nil
	}

	i := m.next
	if i >= len(m.faces) {
		i = len(m.faces) - 1
	} else {
		m.next++
	}
	return m.faces[i], nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture geometry in normalized frame coordinates. With these values the
// face center (half way between the eye line and the upper lip) sits at
// (0.5, 0.5), so a nose tip at (0.5, 0.5) has zero offset.
const (
	fixtureEyeY     = 0.40
	fixtureLipY     = 0.60
	fixtureEyeInset = 0.05
)

// NeutralFace returns a FaceMesh-sized landmark set looking straight at the
// camera with a closed mouth.
func NeutralFace() *FaceLandmarks {
	return TurnedFace(0, 0)
}

// TurnedFace returns a face whose nose tip is offset by (dx, dy) from the
// face center. Positive dx moves the nose toward larger x in the raw
// (unmirrored) image, positive dy moves it down.
func TurnedFace(dx, dy float64) *FaceLandmarks {
	idx := FaceMeshIndices()

	face := &FaceLandmarks{
		Points: make([]Point3D, NumFaceMeshLandmarks),
		Score:  0.97,
	}
	for i := range face.Points {
		face.Points[i] = Point3D{X: 0.5, Y: 0.5}
	}

	face.Points[idx.LeftEye] = Point3D{X: 0.5 - fixtureEyeInset, Y: fixtureEyeY}
	face.Points[idx.RightEye] = Point3D{X: 0.5 + fixtureEyeInset, Y: fixtureEyeY}
	face.Points[idx.UpperLip] = Point3D{X: 0.5, Y: fixtureLipY}
	face.Points[idx.LowerLip] = Point3D{X: 0.5, Y: fixtureLipY}
	face.Points[idx.NoseTip] = Point3D{X: 0.5 + dx, Y: 0.5 + dy, Z: -0.05}

	return face
}

// WithMouthOpenness returns a copy of face with the lower lip moved so the
// vertical lip gap equals openness.
func WithMouthOpenness(face *FaceLandmarks, openness float64) *FaceLandmarks {
	idx := FaceMeshIndices()

	out := &FaceLandmarks{
		Points: make([]Point3D, len(face.Points)),
		Score:  face.Score,
	}
	copy(out.Points, face.Points)

	lower := out.Points[idx.LowerLip]
	lower.Y = out.Points[idx.UpperLip].Y + openness
	out.Points[idx.LowerLip] = lower

	return out
}
