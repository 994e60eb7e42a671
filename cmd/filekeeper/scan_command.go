package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var maxFiles int

	cmd := &cobra.Command{
		Use:   "scan [root...]",
		Short: "Scan roots and summarize what is there",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := resolveRoots(args)
			if err != nil {
				return err
			}

			outcome, err := ctx.runPipeline(cmd, pipeline.Request{
				Trigger:  reports.TriggerManual,
				Roots:    roots,
				MaxFiles: maxFiles,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, outcome.Scan)
			}

			out := cmd.OutOrStdout()
			printScanSummary(out, outcome)
			printScanWarnings(out, outcome.Warnings)
			fmt.Fprintf(out, "Run ID: %s\n", outcome.Report.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the merged scan summary as JSON")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "Cap files per root (0 uses scan.max_files)")
	return cmd
}
