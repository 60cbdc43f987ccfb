package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/grovetools/deck/internal/engine/pidfile"
	"github.com/grovetools/deck/internal/lifecycle"
	"github.com/grovetools/deck/logging"
	"github.com/grovetools/deck/pkg/paths"
	"github.com/spf13/cobra"
)

func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run deck headless until interrupted",
		Long: `Load state, activate the current project and keep running. Workflow
mount and unmount events are logged, MemSaver timers fire, and edits to
deck.yml are applied live. State is flushed on exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pidPath := filepath.Join(paths.StateDir(), "deck.pid")
			if err := pidfile.Acquire(pidPath); err != nil {
				return err
			}
			defer pidfile.Release(pidPath)

			e, err := openEngine(cmd, lifecycle.LogMounter{Logger: logging.NewLogger("lifecycle")})
			if err != nil {
				return err
			}
			logging.NewLogger("deck").Info("Running; press Ctrl+C to stop")
			return e.Start(ctx)
		},
	}
}
