package config

// ControllerConfig is the root config for controller.yaml
type ControllerConfig struct {
	Display   DisplayConfig   `yaml:"display"`
	Physics   PhysicsSettings `yaml:"physics"`
	Movement  MovementConfig  `yaml:"movement"`
	Jump      JumpConfig      `yaml:"jump"`
	WallJump  WallJumpConfig  `yaml:"wallJump"`
	Roll      RollConfig      `yaml:"roll"`
	Contact   ContactConfig   `yaml:"contact"`
	Animation AnimationConfig `yaml:"animation"`
	Character CharacterConfig `yaml:"character"`
}

type DisplayConfig struct {
	ScreenWidth  int `yaml:"screenWidth"`
	ScreenHeight int `yaml:"screenHeight"`
	Scale        int `yaml:"scale"`
	Framerate    int `yaml:"framerate"`
}

type PhysicsSettings struct {
	// TickRate is the fixed physics rate in steps per second.
	TickRate int `yaml:"tickRate"`
	// MaxStepsPerFrame caps catch-up steps after a slow frame.
	MaxStepsPerFrame int `yaml:"maxStepsPerFrame"`
	// Gravity is the downward acceleration in units/s^2.
	Gravity float64 `yaml:"gravity"`
	// Iterations is the solver iteration count of the physics space.
	Iterations int `yaml:"iterations"`
}

type MovementConfig struct {
	RunAccel  float64 `yaml:"runAccel"`  // units/s^2 at full input
	MaxRunVel float64 `yaml:"maxRunVel"` // units/s at full input
}

type JumpConfig struct {
	Velocity     float64 `yaml:"velocity"`
	SnapDistance float64 `yaml:"snapDistance"`
}

type WallJumpConfig struct {
	Velocity  float64 `yaml:"velocity"`
	MinFactor float64 `yaml:"minFactor"` // push fraction kept while residual push is active
	Duration  float64 `yaml:"duration"`
}

type RollConfig struct {
	Velocity     float64 `yaml:"velocity"`
	Duration     float64 `yaml:"duration"`
	MaxAddition  float64 `yaml:"maxAddition"`  // roll seconds gained per second on a steep downhill
	JumpVelocity float64 `yaml:"jumpVelocity"` // roll-cancel jump speed
	HeightFactor float64 `yaml:"heightFactor"` // collider height scale while rolling
	// ForcedDuration is the re-roll length when the normal collider does not fit.
	ForcedDuration float64 `yaml:"forcedDuration"`
}

type ContactConfig struct {
	GroundEpsilon float64 `yaml:"groundEpsilon"`
	WallEpsilon   float64 `yaml:"wallEpsilon"`
	// OverlapSlop is the penetration depth ignored by the unroll fit test.
	OverlapSlop float64 `yaml:"overlapSlop"`
}

type AnimationConfig struct {
	FrameTime  float64 `yaml:"frameTime"`
	RunFrames  int     `yaml:"runFrames"`
	RollFrames int     `yaml:"rollFrames"`
}

type CharacterConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Mass   float64 `yaml:"mass"`
}

// DT returns the fixed physics step in seconds
func (c *ControllerConfig) DT() float64 {
	return 1.0 / float64(c.Physics.TickRate)
}
