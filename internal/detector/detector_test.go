package detector

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

const epsilon = 1e-9

func TestFaceMeshIndices_Validate(t *testing.T) {
	tests := []struct {
		name    string
		indices LandmarkIndices
		n       int
		wantErr bool
	}{
		{
			name:    "facemesh indices fit 468 points",
			indices: FaceMeshIndices(),
			n:       NumFaceMeshLandmarks,
		},
		{
			name:    "facemesh indices fit refined 478 points",
			indices: FaceMeshIndices(),
			n:       478,
		},
		{
			name:    "right eye out of range for small model",
			indices: FaceMeshIndices(),
			n:       106,
			wantErr: true,
		},
		{
			name:    "negative index",
			indices: LandmarkIndices{NoseTip: -1, LeftEye: 1, RightEye: 2, UpperLip: 3, LowerLip: 4},
			n:       10,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.indices.Validate(tt.n)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestFaceLandmarks_At(t *testing.T) {
	face := NeutralFace()

	if face.Len() != NumFaceMeshLandmarks {
		t.Fatalf("Len() = %d, want %d", face.Len(), NumFaceMeshLandmarks)
	}

	nose, ok := face.At(FaceMeshIndices().NoseTip)
	if !ok {
		t.Fatal("expected nose tip to be present")
	}
	if math.Abs(nose.X-0.5) > epsilon || math.Abs(nose.Y-0.5) > epsilon {
		t.Errorf("nose tip = (%f, %f), want (0.5, 0.5)", nose.X, nose.Y)
	}

	if _, ok := face.At(-1); ok {
		t.Error("At(-1) should report missing")
	}
	if _, ok := face.At(NumFaceMeshLandmarks); ok {
		t.Error("At(len) should report missing")
	}

	var nilFace *FaceLandmarks
	if nilFace.Len() != 0 {
		t.Error("nil face should have zero length")
	}
	if nilFace.Covers(FaceMeshIndices()) {
		t.Error("nil face should not cover any index")
	}
}

func TestFixtures(t *testing.T) {
	idx := FaceMeshIndices()

	t.Run("turned face offsets nose only", func(t *testing.T) {
		face := TurnedFace(0.1, -0.05)
		nose := face.Points[idx.NoseTip]
		if math.Abs(nose.X-0.6) > epsilon || math.Abs(nose.Y-0.45) > epsilon {
			t.Errorf("nose = (%f, %f), want (0.6, 0.45)", nose.X, nose.Y)
		}
		if face.Points[idx.LeftEye] != NeutralFace().Points[idx.LeftEye] {
			t.Error("left eye should not move")
		}
	})

	t.Run("mouth openness sets lip gap", func(t *testing.T) {
		base := NeutralFace()
		open := WithMouthOpenness(base, 0.05)

		gap := open.Points[idx.LowerLip].Y - open.Points[idx.UpperLip].Y
		if math.Abs(gap-0.05) > epsilon {
			t.Errorf("lip gap = %f, want 0.05", gap)
		}

		// the source face must be untouched
		if base.Points[idx.LowerLip].Y != base.Points[idx.UpperLip].Y {
			t.Error("WithMouthOpenness modified its input")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("no face by default", func(t *testing.T) {
		m := NewMockDetector()
		face, err := m.Detect(nil)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if face != nil {
			t.Error("expected no face")
		}
	})

	t.Run("sequence repeats last entry", func(t *testing.T) {
		m := NewMockDetector()
		first := NeutralFace()
		second := TurnedFace(0.1, 0)
		m.SetSequence([]*FaceLandmarks{first, nil, second})

		want := []*FaceLandmarks{first, nil, second, second}
		for i, w := range want {
			got, err := m.Detect(nil)
			if err != nil {
				t.Fatalf("Detect() #%d error = %v", i, err)
			}
			if got != w {
				t.Errorf("Detect() #%d returned unexpected face", i)
			}
		}

		if m.Calls() != len(want) {
			t.Errorf("Calls() = %d, want %d", m.Calls(), len(want))
		}
	})

	t.Run("error is returned", func(t *testing.T) {
		m := NewMockDetector()
		m.SetFace(NeutralFace())
		m.SetError(ErrDetectorUnavailable)

		_, err := m.Detect(nil)
		if !errors.Is(err, ErrDetectorUnavailable) {
			t.Errorf("Detect() error = %v, want ErrDetectorUnavailable", err)
		}
	})
}

func TestParseFaceMeshResponse(t *testing.T) {
	t.Run("first face is kept", func(t *testing.T) {
		line := []byte(`{"faces":[{"points":[{"x":0.1,"y":0.2,"z":0.3}],"score":0.9},{"points":[],"score":0.5}]}` + "\n")
		face, err := parseFaceMeshResponse(line)
		if err != nil {
			t.Fatalf("parse error = %v", err)
		}
		if face == nil {
			t.Fatal("expected a face")
		}
		if face.Score != 0.9 {
			t.Errorf("Score = %f, want 0.9", face.Score)
		}
		if len(face.Points) != 1 || face.Points[0].Y != 0.2 {
			t.Errorf("Points = %+v", face.Points)
		}
	})

	t.Run("no faces", func(t *testing.T) {
		face, err := parseFaceMeshResponse([]byte(`{"faces":[]}`))
		if err != nil {
			t.Fatalf("parse error = %v", err)
		}
		if face != nil {
			t.Error("expected nil face")
		}
	})

	t.Run("service error is terminal", func(t *testing.T) {
		_, err := parseFaceMeshResponse([]byte(`{"faces":[],"error":"model load failed"}`))
		if !errors.Is(err, ErrDetectorUnavailable) {
			t.Errorf("error = %v, want ErrDetectorUnavailable", err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseFaceMeshResponse([]byte(`not json`)); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptPath = filepath.Join(t.TempDir(), "missing.py")

	_, err := NewMediaPipeDetector(cfg)
	if !errors.Is(err, ErrDetectorUnavailable) {
		t.Errorf("NewMediaPipeDetector() error = %v, want ErrDetectorUnavailable", err)
	}
}

func TestMediaPipeDetector_ScriptArgs(t *testing.T) {
	d := &MediaPipeDetector{
		config:     DefaultConfig(),
		scriptPath: "/opt/facemesh_service.py",
	}

	args := d.scriptArgs()
	if args[0] != "/opt/facemesh_service.py" {
		t.Errorf("args[0] = %q, want script path", args[0])
	}
	if args[len(args)-1] != "--refine-landmarks" {
		t.Errorf("expected --refine-landmarks flag, got %v", args)
	}
}
