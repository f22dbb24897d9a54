package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/younwookim/starroll/internal/application/game"
	"github.com/younwookim/starroll/internal/application/replay"
	"github.com/younwookim/starroll/internal/application/scene/playing"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

var (
	// play flags
	flagStage  string
	flagWatch  bool
	flagRecord   bool
	flagRecordTo string
	flagView   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a stage",
	Long: `Open a window and play a stage.

Controls:
  A/D or arrows   - Run
  W/Space         - Jump (also wall jump)
  Shift/S         - Roll
  R               - Restart the stage
  ESC/P           - Pause
  F5              - Save the recording (with --record)

With --watch, edits to controller.yaml and the current stage file are
applied while playing. Files that fail validation are ignored.`,
	RunE: runPlay,
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagStage, "stage", "demo", "Stage to load")
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "Hot reload configs (requires --config-dir)")
	cmd.Flags().BoolVar(&flagRecord, "record", false, "Record input, saved on exit or F5")
	cmd.Flags().StringVar(&flagRecordTo, "record-to", "", "Recording file (default: replay_<time>.json)")
	cmd.Flags().StringVar(&flagView, "view", "", "Watch a recording in the window instead of playing")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	if flagWatch && flagConfigDir == "" {
		return errors.New("--watch requires --config-dir")
	}

	loader, err := newLoader()
	if err != nil {
		return err
	}

	opts := playing.Options{
		Loader:     loader,
		Record:     flagRecord || flagRecordTo != "",
		RecordPath: flagRecordTo,
		Logger:     logger,
	}

	stage := flagStage
	if flagView != "" {
		data, err := replay.Load(flagView)
		if err != nil {
			return err
		}
		opts.Replay = data
		opts.Record = false
		stage = data.Stage
	}

	// Load configurations
	cfg, err := loader.LoadAll(stage)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if flagWatch {
		watcher, err := config.NewWatcher(flagConfigDir, filepath.Join(flagConfigDir, "stages"))
		if err != nil {
			return err
		}
		defer watcher.Close()
		opts.Watcher = watcher
		logger.Info("watching configs", "dir", flagConfigDir)
	}

	scene, err := playing.New(cfg, opts)
	if err != nil {
		return err
	}

	display := cfg.Controller.Display
	g := game.New(scene, display)
	defer g.Close()

	// Set up ebiten
	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Star Roll - " + cfg.Stage.Name)
	ebiten.SetTPS(display.Framerate)

	logger.Info("starting", "stage", cfg.Stage.ID, "tps", cfg.Controller.Physics.TickRate)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
