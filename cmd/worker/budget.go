package main

import (
	"fmt"
	"strconv"

	"pet-reels/internal/domain/governor"

	"github.com/spf13/cobra"
)

func newBudgetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Show today's upstream call budget usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rows := make([][]string, 0, 2)
			for _, b := range []struct {
				name string
				gov  *governor.Governor
			}{
				{"listings", a.Governor},
				{"geocoding", a.GeoGovernor},
			} {
				used, err := b.gov.Used(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s budget: %w", b.name, err)
				}
				remaining, err := b.gov.Remaining(cmd.Context())
				if err != nil {
					return fmt.Errorf("%s budget: %w", b.name, err)
				}
				rows = append(rows, []string{
					b.name,
					strconv.FormatInt(used, 10),
					strconv.FormatInt(remaining, 10),
					strconv.FormatInt(b.gov.Limit(), 10),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Provider", "Used", "Remaining", "Limit"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}
