package gesture

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/ayusman/headtype/internal/detector"
)

const epsilon = 1e-9

func TestExtract_NeutralFace(t *testing.T) {
	signals := Extract(detector.NeutralFace(), detector.FaceMeshIndices())

	if math.Abs(signals.FaceCenter.X-0.5) > epsilon || math.Abs(signals.FaceCenter.Y-0.5) > epsilon {
		t.Errorf("FaceCenter = %v, want (0.5, 0.5)", signals.FaceCenter)
	}
	if math.Abs(signals.EyesCenter.Y-0.4) > epsilon {
		t.Errorf("EyesCenter.Y = %f, want 0.4", signals.EyesCenter.Y)
	}
	if signals.Magnitude > epsilon {
		t.Errorf("Magnitude = %f, want 0", signals.Magnitude)
	}
	if signals.MouthOpenness > epsilon {
		t.Errorf("MouthOpenness = %f, want 0", signals.MouthOpenness)
	}
}

func TestExtract_FaceCenterBlendsEyesAndLip(t *testing.T) {
	idx := detector.FaceMeshIndices()
	face := detector.NeutralFace()

	// Tilt the eye line and move the lip; the center must stay the equal blend.
	face.Points[idx.LeftEye] = detector.Point3D{X: 0.40, Y: 0.30}
	face.Points[idx.RightEye] = detector.Point3D{X: 0.60, Y: 0.34}
	face.Points[idx.UpperLip] = detector.Point3D{X: 0.52, Y: 0.70}

	signals := Extract(face, idx)

	want := r2.Point{X: 0.5*0.5 + 0.52*0.5, Y: 0.32*0.5 + 0.70*0.5}
	if math.Abs(signals.FaceCenter.X-want.X) > epsilon || math.Abs(signals.FaceCenter.Y-want.Y) > epsilon {
		t.Errorf("FaceCenter = %v, want %v", signals.FaceCenter, want)
	}
}

func TestExtract_Direction(t *testing.T) {
	tests := []struct {
		name      string
		dx, dy    float64
		wantAngle float64
	}{
		{name: "toward +x", dx: 0.1, dy: 0, wantAngle: 0},
		{name: "down", dx: 0, dy: 0.1, wantAngle: 90},
		{name: "up", dx: 0, dy: -0.1, wantAngle: -90},
		{name: "toward -x folds to -180", dx: -0.1, dy: 0, wantAngle: -180},
		{name: "diagonal", dx: 0.1, dy: 0.1, wantAngle: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signals := Extract(detector.TurnedFace(tt.dx, tt.dy), detector.FaceMeshIndices())

			if math.Abs(signals.AngleDegrees-tt.wantAngle) > 1e-6 {
				t.Errorf("AngleDegrees = %f, want %f", signals.AngleDegrees, tt.wantAngle)
			}
			wantMag := math.Hypot(tt.dx, tt.dy)
			if math.Abs(signals.Magnitude-wantMag) > 1e-6 {
				t.Errorf("Magnitude = %f, want %f", signals.Magnitude, wantMag)
			}
			if signals.AngleDegrees < -180 || signals.AngleDegrees >= 180 {
				t.Errorf("AngleDegrees %f outside [-180, 180)", signals.AngleDegrees)
			}
		})
	}
}

func TestExtract_MouthOpenness(t *testing.T) {
	idx := detector.FaceMeshIndices()

	open := detector.WithMouthOpenness(detector.NeutralFace(), 0.04)
	if got := Extract(open, idx).MouthOpenness; math.Abs(got-0.04) > epsilon {
		t.Errorf("MouthOpenness = %f, want 0.04", got)
	}

	// Openness is an absolute distance even if the lips cross.
	crossed := detector.WithMouthOpenness(detector.NeutralFace(), -0.02)
	if got := Extract(crossed, idx).MouthOpenness; math.Abs(got-0.02) > epsilon {
		t.Errorf("MouthOpenness = %f, want 0.02", got)
	}
}

func TestAngleDegrees_Range(t *testing.T) {
	for deg := -180.0; deg < 180; deg += 7.5 {
		rad := deg * math.Pi / 180
		v := r2.Point{X: math.Cos(rad), Y: math.Sin(rad)}
		got := angleDegrees(v)
		if got < -180 || got >= 180 {
			t.Errorf("angleDegrees(%v) = %f outside [-180, 180)", v, got)
		}
	}
}
