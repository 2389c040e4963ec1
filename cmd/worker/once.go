package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pet-reels/internal/domain/pipeline"

	"github.com/spf13/cobra"
)

func newOnceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "once <job>",
		Short:     "Run a single sync job and print its summary",
		Long:      "Jobs: " + strings.Join(pipeline.Jobs(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: pipeline.Jobs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signalContext(cmd.Context())
			defer stop()

			a, err := ctx.openApp(runCtx)
			if err != nil {
				return err
			}
			defer a.Close()

			sum, runErr := a.Pipeline().Run(runCtx, args[0])
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(sum))
			return runErr
		},
	}
}

func renderSummary(s pipeline.Summary) string {
	rows := [][]string{
		{"job", s.Job},
		{"duration", s.Duration.Round(time.Millisecond).String()},
		{"hubs", strconv.Itoa(s.Hubs)},
		{"pages", strconv.Itoa(s.Pages)},
		{"seen", strconv.Itoa(s.Seen)},
		{"created", strconv.Itoa(s.Created)},
		{"updated", strconv.Itoa(s.Updated)},
		{"touched", strconv.FormatInt(s.Touched, 10)},
		{"deleted", strconv.FormatInt(s.Deleted, 10)},
		{"orphans", strconv.FormatInt(s.Orphans, 10)},
		{"deferred", strconv.Itoa(s.Deferred)},
		{"skipped", strconv.Itoa(s.Skipped)},
		{"failed", strconv.Itoa(s.Failed)},
		{"stopped (budget)", strconv.FormatBool(s.Stopped)},
		{"cursor advanced", strconv.FormatBool(s.Advanced)},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
