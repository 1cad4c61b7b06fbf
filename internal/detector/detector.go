package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrDetectorUnavailable is returned when the landmark model cannot be loaded
// or its backing process fails. It is terminal for the detection pipeline.
var ErrDetectorUnavailable = errors.New("face detector unavailable")

// Detector defines the interface for face landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the landmarks of the tracked face.
	// Returns nil, nil if no face is detected.
	Detect(frame *gocv.Mat) (*FaceLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face detection.
type Config struct {
	// MaxFaces is the maximum number of faces to detect. Only the first is used.
	MaxFaces int

	// RefineLandmarks enables the iris/lip refinement model.
	RefineLandmarks bool

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath overrides the location of the FaceMesh service script.
	ScriptPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxFaces:        1,
		RefineLandmarks: true,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
