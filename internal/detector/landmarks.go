// Package detector provides face landmark detection interfaces and types.
package detector

import "fmt"

// NumFaceMeshLandmarks is the number of points produced by MediaPipe FaceMesh.
// With refined landmarks enabled the model returns 478 points; the first 468
// keep the same meaning.
const NumFaceMeshLandmarks = 468

// Point3D represents a normalized landmark position. X and Y are in [0,1]
// relative to the frame; Z is the model's relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FaceLandmarks is the landmark set of a single detected face.
type FaceLandmarks struct {
	Points []Point3D `json:"points"`
	Score  float64   `json:"score"`
}

// Len returns the number of landmarks in the set.
func (f *FaceLandmarks) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Points)
}

// At returns the landmark at index i.
func (f *FaceLandmarks) At(i int) (Point3D, bool) {
	if f == nil || i < 0 || i >= len(f.Points) {
		return Point3D{}, false
	}
	return f.Points[i], true
}

// Covers reports whether every index in idx exists in the landmark set.
func (f *FaceLandmarks) Covers(idx LandmarkIndices) bool {
	return idx.Validate(f.Len()) == nil
}

// LandmarkIndices names the landmarks the gesture pipeline consumes.
// They are kept configurable so a different detector model can be swapped in.
type LandmarkIndices struct {
	NoseTip  int `json:"nose_tip"`
	LeftEye  int `json:"left_eye"`
	RightEye int `json:"right_eye"`
	UpperLip int `json:"upper_lip"`
	LowerLip int `json:"lower_lip"`
}

// FaceMeshIndices returns the indices used by the MediaPipe FaceMesh topology.
// See: https://github.com/google/mediapipe/blob/master/mediapipe/modules/face_geometry/data/canonical_face_model_uv_visualization.png
func FaceMeshIndices() LandmarkIndices {
	return LandmarkIndices{
		NoseTip:  4,
		LeftEye:  33,
		RightEye: 263,
		UpperLip: 13,
		LowerLip: 14,
	}
}

// Validate checks that every index fits in a landmark set of size n.
func (l LandmarkIndices) Validate(n int) error {
	named := []struct {
		name  string
		index int
	}{
		{"nose tip", l.NoseTip},
		{"left eye", l.LeftEye},
		{"right eye", l.RightEye},
		{"upper lip", l.UpperLip},
		{"lower lip", l.LowerLip},
	}
	for _, p := range named {
		if p.index < 0 || p.index >= n {
			return fmt.Errorf("%s index %d out of range [0,%d)", p.name, p.index, n)
		}
	}
	return nil
}
