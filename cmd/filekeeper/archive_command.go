package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filekeeper/internal/catalog"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	var apply bool
	var days int

	cmd := &cobra.Command{
		Use:   "archive [root...]",
		Short: "Plan or execute archival of old files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := resolveRoots(args)
			if err != nil {
				return err
			}

			cfg := ctx.configValue()
			cutoffDays := days
			if cutoffDays <= 0 {
				cutoffDays = cfg.Archive.OldFileThresholdDays
			}

			outcome, err := ctx.runPipeline(cmd, pipeline.Request{
				Trigger:     reports.TriggerManual,
				Roots:       roots,
				Archive:     true,
				ArchiveDays: days,
				Apply:       apply,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cutoff := outcome.Report.StartedAt.AddDate(0, 0, -cutoffDays)
			oldCount, oldBytes := catalog.OldFileStats(outcome.Records, cutoff)
			fmt.Fprintf(out, "Files older than %d days: %s (%s)\n",
				cutoffDays, formatCount(oldCount), formatSize(oldBytes))

			if !outcome.Applied {
				printPlanTable(out, "Archival plan", outcome.ArchivePlan)
				printDryRunHint(out, outcome.Applied)
				return nil
			}
			printRunResult(out, outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Execute the plan instead of printing it")
	cmd.Flags().IntVar(&days, "days", 0, "Age threshold in days (0 uses archive.old_file_threshold_days)")
	return cmd
}
