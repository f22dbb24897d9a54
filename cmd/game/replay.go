package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jakecoffman/cp"
	"github.com/spf13/cobra"

	"github.com/younwookim/starroll/internal/application/replay"
	"github.com/younwookim/starroll/internal/application/scene/playing"
	"github.com/younwookim/starroll/internal/application/system"
	"github.com/younwookim/starroll/internal/domain/entity"
)

var (
	// replay flags
	flagEvery int
	flagLimit int
)

var traceHeaders = []string{"frame", "steps", "x", "y", "vx", "vy", "anim", "grounded", "jump", "events"}

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-simulate a recording and print a frame trace",
	Long: `Load a recording, run it through the simulation without a window and
print one table row every --every frames. Frames with a jump or another
event are always printed.

Examples:
  game replay run.json
  game replay run.json --every 1 --limit 120`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().IntVar(&flagEvery, "every", 10, "Print every Nth frame")
	replayCmd.Flags().IntVar(&flagLimit, "limit", 0, "Stop after N frames (0 = whole recording)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	data, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	loader, err := newLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.LoadAll(data.Stage)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if data.TPS != 0 && data.TPS != cfg.Controller.Physics.TickRate {
		logger.Warn("tick rate differs from recording", "recorded", data.TPS, "config", cfg.Controller.Physics.TickRate)
	}

	sim, err := playing.NewSim(cfg.Controller, cfg.Stage, logger.WithPrefix("replay"))
	if err != nil {
		return err
	}

	rows, n := traceReplay(sim, data, flagEvery, flagLimit)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTrace(rows))
	writeSummary(out, sim, n)
	return nil
}

// traceRow is one printed frame of a replay
type traceRow struct {
	Frame    int
	Steps    int
	Pos      cp.Vector
	Vel      cp.Vector
	Anim     entity.AnimState
	Grounded bool
	Jump     system.JumpKind
	Events   []string
}

// newTraceRow summarizes the steps of one frame. The kinematic columns are
// the state after the frame.
func newTraceRow(res playing.FrameResult, pos, vel cp.Vector, anim entity.AnimState, grounded bool) traceRow {
	row := traceRow{
		Frame:    res.Frame,
		Steps:    len(res.Steps),
		Pos:      pos,
		Vel:      vel,
		Anim:     anim,
		Grounded: grounded,
	}

	add := func(ev string) {
		for _, e := range row.Events {
			if e == ev {
				return
			}
		}
		row.Events = append(row.Events, ev)
	}

	for _, s := range res.Steps {
		if row.Jump == system.JumpNone {
			row.Jump = s.Jump
		}
		for _, e := range s.Edges {
			if e.GroundEnter {
				add("land")
			}
			if e.GroundExit {
				add("leave")
			}
			if e.WallEnter {
				add("wall")
			}
			if e.CeilingEnter {
				add("ceiling")
			}
		}
		if s.Snapped {
			add("snap")
		}
		if s.Bounced {
			add("bounce")
		}
		if s.RollStarted {
			add("roll")
		}
		if s.ForcedRoll {
			add("forced")
		}
		if s.RollEnded {
			add("unroll")
		}
	}
	if res.Respawned {
		add("respawn")
	}
	if res.Reloaded {
		add("reload")
	}
	return row
}

// interesting reports whether the row is printed regardless of --every
func (r traceRow) interesting() bool {
	return r.Jump != system.JumpNone || len(r.Events) > 0
}

func (r traceRow) cells() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
	return []string{
		strconv.Itoa(r.Frame),
		strconv.Itoa(r.Steps),
		f(r.Pos.X),
		f(r.Pos.Y),
		f(r.Vel.X),
		f(r.Vel.Y),
		r.Anim.String(),
		strconv.FormatBool(r.Grounded),
		r.Jump.String(),
		strings.Join(r.Events, ","),
	}
}

// traceReplay runs data through sim and keeps every Nth frame plus the
// frames with events. It returns the kept rows and the frames run.
func traceReplay(sim *playing.Sim, data *replay.ReplayData, every, limit int) ([]traceRow, int) {
	every = max(1, every)
	var rows []traceRow
	n := sim.Replay(data, func(res playing.FrameResult) bool {
		ch := sim.Controller().State()
		row := newTraceRow(res, sim.Body().Position(), sim.Body().Velocity(), ch.Anim.State, ch.Ground.Grounded())
		if res.Frame%every == 0 || row.interesting() {
			rows = append(rows, row)
		}
		return limit <= 0 || res.Frame+1 < limit
	})
	return rows, n
}

// renderTrace formats rows as a table
func renderTrace(rows []traceRow) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.cells()
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(traceHeaders...).
		Rows(cells...).
		String()
}

func writeSummary(w io.Writer, sim *playing.Sim, frames int) {
	session := sim.Session()
	fmt.Fprintf(w, "frames: %d  steps: %d  respawns: %d  state: %s\n",
		frames, sim.Controller().Steps(), sim.Respawns(), session.State())
	for _, v := range sim.Stage().Volumes {
		if v.Trigger.Kind == entity.TriggerDoor {
			fmt.Fprintf(w, "door %d (%s): opened=%t\n", v.Trigger.ID, v.Trigger.Category, session.Opened(v.Trigger.ID))
		}
	}
}
