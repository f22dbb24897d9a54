package playing

import (
	"errors"
	"fmt"
	"time"

	"github.com/younwookim/starroll/internal/application/replay"
	"github.com/younwookim/starroll/internal/application/system"
)

// ErrEmptyRecording is returned when saving a recording with no frames
var ErrEmptyRecording = errors.New("no frames to save")

// Recorder captures sampled input frames of a live run
type Recorder struct {
	data    replay.ReplayData
	stopped bool
}

// NewRecorder creates a recorder for stage. fps is the sampling rate and
// tps the physics rate the run is played at.
func NewRecorder(stage string, fps, tps int, start time.Time) *Recorder {
	return &Recorder{
		data: replay.ReplayData{
			Version:   replay.Version,
			Stage:     stage,
			FPS:       fps,
			TPS:       tps,
			StartTime: start.Format(time.RFC3339),
			Frames:    make([]replay.FrameInput, 0, 60*max(fps, 1)),
		},
	}
}

// Record appends one frame. Frames after Stop are dropped.
func (r *Recorder) Record(in system.InputState) {
	if r.stopped {
		return
	}
	r.data.Frames = append(r.data.Frames, replay.FrameInput{
		F:  len(r.data.Frames),
		X:  in.Axis,
		J:  in.JumpPressed,
		R:  in.RollPressed,
		P:  in.PausePressed,
		RS: in.ResetPressed,
	})
}

func (r *Recorder) Stop() {
	r.stopped = true
}

func (r *Recorder) Stopped() bool {
	return r.stopped
}

func (r *Recorder) Len() int {
	return len(r.data.Frames)
}

// Data returns the frames recorded so far
func (r *Recorder) Data() replay.ReplayData {
	return r.data
}

// Save writes the recording to path. Saving again later rewrites the file
// with every frame recorded since the start.
func (r *Recorder) Save(path string) error {
	if r.Len() == 0 {
		return ErrEmptyRecording
	}
	return replay.Save(path, &r.data)
}

// DefaultFilename names a recording after the time it was started
func DefaultFilename(start time.Time) string {
	return fmt.Sprintf("replay_%s.json", start.Format("20060102_150405"))
}
