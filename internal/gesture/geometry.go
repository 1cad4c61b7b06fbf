// Package gesture turns face landmarks into discrete input intents: a keypad
// cell chosen by head direction and a confirm event from a mouth open/close cycle.
package gesture

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/ayusman/headtype/internal/detector"
)

// FaceSignals holds the per-frame values derived from a landmark set.
type FaceSignals struct {
	NoseTip    r2.Point `json:"nose_tip"`
	EyesCenter r2.Point `json:"eyes_center"`
	FaceCenter r2.Point `json:"face_center"`
	UpperLip   r2.Point `json:"upper_lip"`
	LowerLip   r2.Point `json:"lower_lip"`

	// Direction is the vector from FaceCenter to NoseTip.
	Direction r2.Point `json:"direction"`

	// AngleDegrees is the direction angle in [-180, 180).
	AngleDegrees float64 `json:"angle_degrees"`

	// Magnitude is the length of Direction, always >= 0.
	Magnitude float64 `json:"magnitude"`

	// MouthOpenness is the vertical gap between the lip centers, always >= 0.
	MouthOpenness float64 `json:"mouth_openness"`
}

// Extract derives FaceSignals from a landmark set using the given indices.
// The caller must ensure face covers idx; Extract is not called for frames
// without a face.
func Extract(face *detector.FaceLandmarks, idx detector.LandmarkIndices) FaceSignals {
	nose := point2(face.Points[idx.NoseTip])
	leftEye := point2(face.Points[idx.LeftEye])
	rightEye := point2(face.Points[idx.RightEye])
	upperLip := point2(face.Points[idx.UpperLip])
	lowerLip := point2(face.Points[idx.LowerLip])

	eyesCenter := leftEye.Add(rightEye).Mul(0.5)

	// Blending the eye line with the upper lip lowers the reference point,
	// which makes up/down tilts register more readily.
	faceCenter := eyesCenter.Mul(0.5).Add(upperLip.Mul(0.5))

	direction := nose.Sub(faceCenter)

	return FaceSignals{
		NoseTip:       nose,
		EyesCenter:    eyesCenter,
		FaceCenter:    faceCenter,
		UpperLip:      upperLip,
		LowerLip:      lowerLip,
		Direction:     direction,
		AngleDegrees:  angleDegrees(direction),
		Magnitude:     direction.Norm(),
		MouthOpenness: math.Abs(upperLip.Y - lowerLip.Y),
	}
}

func point2(p detector.Point3D) r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// angleDegrees returns atan2(v.Y, v.X) in degrees, folded into [-180, 180).
func angleDegrees(v r2.Point) float64 {
	deg := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if deg >= 180 {
		deg -= 360
	}
	return deg
}
