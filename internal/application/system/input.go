package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// stickDeadzone is the gamepad stick magnitude treated as centered
const stickDeadzone = 0.2

// InputSystem reads keyboard and gamepad state once per sampled frame
type InputSystem struct {
	gamepads []ebiten.GamepadID
}

// NewInputSystem creates a new input system
func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

// InputState holds the input of one sampled frame. Button fields are
// just-pressed edges; Axis is level-triggered.
type InputState struct {
	Axis         float64
	JumpPressed  bool
	RollPressed  bool
	PausePressed bool
	ResetPressed bool
}

// GetInput reads the current input state
func (s *InputSystem) GetInput() InputState {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)

	in := InputState{
		JumpPressed:  inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeySpace),
		RollPressed:  inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) || inpututil.IsKeyJustPressed(ebiten.KeyS),
		PausePressed: inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP),
		ResetPressed: inpututil.IsKeyJustPressed(ebiten.KeyR),
	}

	stick := 0.0
	s.gamepads = ebiten.AppendGamepadIDs(s.gamepads[:0])
	for _, id := range s.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		if v := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal); math.Abs(v) > math.Abs(stick) {
			stick = v
		}
		left = left || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft)
		right = right || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.RollPressed = in.RollPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		in.PausePressed = in.PausePressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
		in.ResetPressed = in.ResetPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterLeft)
	}

	in.Axis = ResolveAxis(left, right, stick)
	return in
}

// ResolveAxis combines digital directions with an analog stick value.
// Opposite digital directions cancel. A stick outside the deadzone wins
// over digital input.
func ResolveAxis(left, right bool, stick float64) float64 {
	if math.IsNaN(stick) {
		stick = 0
	}
	if math.Abs(stick) > stickDeadzone {
		return max(-1, min(1, stick))
	}
	axis := 0.0
	if left {
		axis--
	}
	if right {
		axis++
	}
	return axis
}
