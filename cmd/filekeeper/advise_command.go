package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

func newAdviseCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise [root...]",
		Short: "Scan and print maintenance recommendations",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := resolveRoots(args)
			if err != nil {
				return err
			}

			outcome, err := ctx.runPipeline(cmd, pipeline.Request{
				Trigger:    reports.TriggerManual,
				Roots:      roots,
				Duplicates: pipeline.DuplicatesReport,
				Advise:     true,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printScanSummary(out, outcome)

			if outcome.Report.Recommendations == "" {
				fmt.Fprintln(out, "No recommendations for this scan.")
				return nil
			}
			fmt.Fprintln(out, outcome.Report.Recommendations)
			return nil
		},
	}

	return cmd
}
