// Package replay stores sampled input frames so a run can be re-simulated
// deterministically.
package replay

import (
	"errors"
	"fmt"
)

// Version is the recording format version
const Version = "2.0"

// ErrInvalidReplay is wrapped by every validation failure
var ErrInvalidReplay = errors.New("invalid replay")

// FrameInput records input state for a single sampled frame
type FrameInput struct {
	F  int     `json:"f"`            // Frame number
	X  float64 `json:"x,omitempty"`  // Horizontal axis
	J  bool    `json:"j,omitempty"`  // JumpPressed
	R  bool    `json:"r,omitempty"`  // RollPressed
	P  bool    `json:"p,omitempty"`  // PausePressed
	RS bool    `json:"rs,omitempty"` // ResetPressed
}

// ReplayData contains all data needed to replay a game session.
// FPS is the sampling rate the frames were recorded at, TPS the physics
// tick rate.
type ReplayData struct {
	Version   string       `json:"version"`
	Stage     string       `json:"stage"`
	FPS       int          `json:"fps"`
	TPS       int          `json:"tps"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}

// FrameDT returns the sampled frame duration in seconds
func (d *ReplayData) FrameDT() float64 {
	if d.FPS <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(d.FPS)
}

// Duration returns the recorded play time in seconds
func (d *ReplayData) Duration() float64 {
	return float64(len(d.Frames)) * d.FrameDT()
}

// Validate checks the tick rate and that frames are numbered from zero
// without gaps, with the axis inside [-1, 1].
func (d *ReplayData) Validate() error {
	var errs []error
	if d.TPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: tps %d", ErrInvalidReplay, d.TPS))
	}
	if d.FPS < 0 {
		errs = append(errs, fmt.Errorf("%w: fps %d", ErrInvalidReplay, d.FPS))
	}
	for i, f := range d.Frames {
		if f.F != i {
			errs = append(errs, fmt.Errorf("%w: frame %d numbered %d", ErrInvalidReplay, i, f.F))
			break
		}
		if f.X < -1 || f.X > 1 {
			errs = append(errs, fmt.Errorf("%w: frame %d axis %g", ErrInvalidReplay, i, f.X))
			break
		}
	}
	return errors.Join(errs...)
}
