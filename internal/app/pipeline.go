package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/headtype/internal/capture"
	"github.com/ayusman/headtype/internal/detector"
	"gocv.io/x/gocv"
)

// runPipeline reads frames until stopCh is closed or a terminal error
// occurs. Frames are handled one at a time, in order:
//
//  1. keep a copy for the preview stream
//  2. motion gate (PowerSave only): still scenes without a tracked face
//     run at IdleFPS and skip detection
//  3. face detection
//  4. session update, renderers, plugins
//
// Detector and frame source failures are terminal; the pipeline records
// the failure and waits for Restart.
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.source.FPS()
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	missed := 0

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}

		frame, err := a.source.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrNoFrame) && missed < MaxMissedFrames {
				missed++
				continue
			}
			if errors.Is(err, capture.ErrNoFrame) {
				err = fmt.Errorf("%d empty frames in a row: %w", missed, capture.ErrFrameSourceUnavailable)
			} else {
				err = fmt.Errorf("read frame: %w", err)
			}
			a.fail(err)
			return
		}
		missed = 0

		err = a.processFrame(frame, time.Now())
		frame.Close()
		if err != nil {
			a.fail(err)
			return
		}

		if current := a.source.FPS(); current != fps {
			fps = current
			ticker.Reset(time.Second / time.Duration(fps))
		}
	}
}

// processFrame runs one frame through the pipeline. It returns an error
// only for terminal failures.
func (a *App) processFrame(frame *gocv.Mat, now time.Time) error {
	a.keepLatest(frame)

	if !a.IsEnabled() {
		return nil
	}

	if a.config.PowerSave {
		moving, _ := a.motion.Observe(frame, now)
		active := moving || a.tracking.Load()
		a.setRate(active)
		if !active {
			return nil
		}
	}

	d := a.Detector()
	if d == nil {
		return detector.ErrDetectorUnavailable
	}

	face, err := d.Detect(frame)
	if err != nil {
		if errors.Is(err, detector.ErrDetectorUnavailable) {
			return err
		}
		log.Printf("Error detecting face: %v", err)
		return nil
	}

	a.tracking.Store(face != nil)
	a.HandleFace(face, now)
	return nil
}

// setRate switches the source between IdleFPS and ActiveFPS.
func (a *App) setRate(active bool) {
	if active == a.fast {
		return
	}
	a.fast = active
	if active {
		a.source.SetFPS(ActiveFPS)
		log.Println("Switched to active mode")
	} else {
		a.source.SetFPS(IdleFPS)
		log.Println("Switched to idle mode")
	}
}

// keepLatest stores a copy of frame for LatestFrame.
func (a *App) keepLatest(frame *gocv.Mat) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	frame.CopyTo(&a.latest)
}
