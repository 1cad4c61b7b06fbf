// Package testdata builds synthetic camera frames for pipeline tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var white = color.RGBA{255, 255, 255, 0}

// SolidFrame returns a BGR frame filled with a single gray level.
func SolidFrame(rows, cols int, level float64) *gocv.Mat {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(level, level, level, 0))
	return &m
}

// MovingSquare returns steps black frames with a white square that moves
// right by one square width per frame. Played in a loop the frames keep a
// motion gate active.
func MovingSquare(rows, cols, steps int) []*gocv.Mat {
	size := rows / 3
	frames := make([]*gocv.Mat, 0, steps)
	for i := 0; i < steps; i++ {
		frame := SolidFrame(rows, cols, 0)
		x := (i * size) % max(1, cols-size)
		gocv.Rectangle(frame, image.Rect(x, size, x+size, 2*size), white, -1)
		frames = append(frames, frame)
	}
	return frames
}

// CloseAll releases frames.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
