package server

import (
	"fmt"
	"image"
	"image/color"
	"net/http"
	"time"

	"github.com/ayusman/headtype/internal/app"
	"github.com/ayusman/headtype/internal/ime"
	"gocv.io/x/gocv"
)

// streamInterval paces the preview at roughly the active frame rate.
const streamInterval = time.Second / app.ActiveFPS

// FrameProvider supplies the preview frame and the state drawn over it.
type FrameProvider interface {
	LatestFrame() (*gocv.Mat, error)
	Snapshot() app.Snapshot
}

// StreamHandler serves the latest pipeline frame as MJPEG with the face
// signals and the active cell drawn on top.
type StreamHandler struct {
	frames FrameProvider
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(frames FrameProvider) *StreamHandler {
	return &StreamHandler{frames: frames}
}

var (
	overlayGreen  = color.RGBA{0, 255, 0, 0}
	overlayRed    = color.RGBA{255, 0, 0, 0}
	overlayYellow = color.RGBA{255, 255, 0, 0}
)

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		frame, err := h.frames.LatestFrame()
		if err != nil {
			continue
		}

		drawOverlay(frame, h.frames.Snapshot())
		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

// drawOverlay mirrors the frame so it moves like the user's reflection,
// the way the keypad cells are laid out, then marks the landmarks used for
// the last decision, the head direction and the active cell label.
func drawOverlay(frame *gocv.Mat, snap app.Snapshot) {
	if frame.Empty() {
		return
	}
	gocv.Flip(*frame, frame, 1)
	cols, rows := frame.Cols(), frame.Rows()

	if s := snap.Signals; s != nil {
		// Landmarks are in raw camera coordinates.
		toPixel := func(x, y float64) image.Point {
			return image.Pt(int((1-x)*float64(cols)), int(y*float64(rows)))
		}
		center := toPixel(s.FaceCenter.X, s.FaceCenter.Y)
		nose := toPixel(s.NoseTip.X, s.NoseTip.Y)

		gocv.Line(frame, center, nose, overlayYellow, 2)
		gocv.Circle(frame, center, 4, overlayGreen, 2)
		gocv.Circle(frame, nose, 4, overlayGreen, -1)

		lips := overlayGreen
		if snap.MouthOpen {
			lips = overlayRed
		}
		gocv.Circle(frame, toPixel(s.UpperLip.X, s.UpperLip.Y), 3, lips, -1)
		gocv.Circle(frame, toPixel(s.LowerLip.X, s.LowerLip.Y), 3, lips, -1)
	}

	if snap.ActiveCell.Valid() {
		label := fmt.Sprintf("%d %s", snap.ActiveCell, ime.Label(snap.ActiveCell))
		gocv.PutText(frame, label, image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, overlayGreen, 2)
	}
	if snap.Spelling != "" {
		gocv.PutText(frame, snap.Spelling, image.Pt(10, rows-15), gocv.FontHersheySimplex, 0.8, overlayYellow, 2)
	}
}
