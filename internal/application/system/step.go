package system

import (
	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/domain/entity"
)

// JumpKind tells which jump a step performed
type JumpKind int

const (
	JumpNone JumpKind = iota
	JumpGround
	JumpWall
	JumpRollCancel
)

func (k JumpKind) String() string {
	switch k {
	case JumpNone:
		return "-"
	case JumpGround:
		return "ground"
	case JumpWall:
		return "wall"
	case JumpRollCancel:
		return "roll-cancel"
	default:
		return "unknown"
	}
}

// StepReport summarizes one physics step
type StepReport struct {
	Step        int
	Grounded    bool
	Snapped     bool
	Bounced     bool
	Jump        JumpKind
	RollStarted bool
	RollEnded   bool
	ForcedRoll  bool
	Edges       []ContactEdges
	Velocity    cp.Vector
	Offset      cp.Vector
	Anim        entity.AnimState
}

// stepState is the scratch state threaded through the models of one step
type stepState struct {
	ch       *entity.Character
	vel      cp.Vector
	offset   cp.Vector
	grounded bool
	// jump and roll are cleared when consumed
	jump   bool
	roll   bool
	axis   float64
	dt     float64
	report *StepReport
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
