// game runs the star-roll platformer.
//
// Usage:
//
//	game play [--stage demo]     - Play a stage (default command)
//	game replay <file>           - Re-simulate a recording and print a trace
//
// Global flags:
//
//	--log-level <level>  - debug, info, warn or error (default: info)
//	--config-dir <dir>   - Load configs from disk instead of the embedded set
package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/younwookim/starroll/internal/infrastructure/config"
)

var (
	// Global flags
	flagLogLevel  string
	flagConfigDir string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "game",
	Short: "Star roll - a 2D platformer with rolling, wall jumps and bounce pads",
	Long: `Star roll is a small tile-based platformer.

Available commands:
  play     - Play a stage (default)
  replay   - Re-simulate a recorded run and print a frame trace

Examples:
  game
  game play --stage demo --record-to run.json
  game play --config-dir cmd/game/configs --watch
  game replay run.json --every 10`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Config directory (default: embedded configs)")

	// play flags are shared with the root so bare `game` plays
	addPlayFlags(rootCmd)
	addPlayFlags(playCmd)

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
}

// newLogger creates the process logger on stderr
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "starroll",
		Level:           level,
	}), nil
}

// newLoader returns a loader over --config-dir, or over the embedded configs
func newLoader() (*config.Loader, error) {
	if flagConfigDir != "" {
		return config.NewLoader(flagConfigDir), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, fmt.Errorf("failed to get config subfs: %w", err)
	}
	return config.NewFSLoader(fsys, "configs"), nil
}
