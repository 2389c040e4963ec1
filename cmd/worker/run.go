package main

import (
	"errors"
	"fmt"

	"pet-reels/internal/scheduler"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every sync job on its schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// un scheduler por host
			lock := flock.New(cfg.Worker.LockFile)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another worker instance is already running")
			}
			defer func() { _ = lock.Unlock() }()

			runCtx, stop := signalContext(cmd.Context())
			defer stop()

			a, err := ctx.openApp(runCtx)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(cfg.Hubs) == 0 {
				a.Log.Warn("no hubs configured; discovery and quick-scan will do nothing", nil)
			}

			s := scheduler.New(a.Pipeline(), cfg.Intervals(), a.Log, scheduler.WithRunOnStart(runOnStart))
			return s.Run(runCtx)
		},
	}

	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run every job once immediately instead of waiting for the first tick")
	return cmd
}
