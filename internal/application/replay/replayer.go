package replay

import "time"

// ReplayInput is one recorded frame of input
type ReplayInput struct {
	Axis         float64
	JumpPressed  bool
	RollPressed  bool
	PausePressed bool
	ResetPressed bool
}

// Replayer plays recorded frames back in order
type Replayer struct {
	data  ReplayData
	frame int
}

func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// Next returns the input of the next frame. ok is false past the end.
func (r *Replayer) Next() (in ReplayInput, ok bool) {
	if r.frame >= len(r.data.Frames) {
		return ReplayInput{}, false
	}
	fi := r.data.Frames[r.frame]
	r.frame++

	return ReplayInput{
		Axis:         fi.X,
		JumpPressed:  fi.J,
		RollPressed:  fi.R,
		PausePressed: fi.P,
		ResetPressed: fi.RS,
	}, true
}

// Frame returns how many frames have been played
func (r *Replayer) Frame() int {
	return r.frame
}

// Remaining returns how many frames are left
func (r *Replayer) Remaining() int {
	return len(r.data.Frames) - r.frame
}

func (r *Replayer) Data() ReplayData {
	return r.data
}

// Rewind starts playback over
func (r *Replayer) Rewind() {
	r.frame = 0
}

// Steady builds a recording that holds axis for the given number of frames
// with no button presses, sampled at 60 fps with a 50 Hz tick.
func Steady(frames int, axis float64) ReplayData {
	data := ReplayData{
		Version:   Version,
		Stage:     "test",
		FPS:       60,
		TPS:       50,
		StartTime: time.Now().Format(time.RFC3339),
		Frames:    make([]FrameInput, frames),
	}
	for i := range data.Frames {
		data.Frames[i] = FrameInput{F: i, X: axis}
	}
	return data
}
