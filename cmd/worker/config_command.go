package main

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML (secrets redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			redacted := *cfg
			redacted.Petfinder.ClientSecret = redact(redacted.Petfinder.ClientSecret)
			redacted.Geocoding.APIKey = redact(redacted.Geocoding.APIKey)
			redacted.Redis.Password = redact(redacted.Redis.Password)
			redacted.Database.DSN = redact(redacted.Database.DSN)

			out, err := toml.Marshal(redacted)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schedule",
		Short: "Print the job schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			iv := cfg.Intervals()
			jobs := make([]string, 0, len(iv))
			for job := range iv {
				jobs = append(jobs, job)
			}
			sort.Strings(jobs)

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{job, iv[job].String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Job", "Every"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	})

	return cmd
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
