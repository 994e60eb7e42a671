package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

// tidy chains the maintenance concerns the way scheduled runs do: organize,
// archive, and duplicate review moves. Removal stays a separate, explicit
// decision.
func newTidyCommand(ctx *commandContext) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "tidy [root...]",
		Short: "Run the full pipeline: organize, archive, and quarantine duplicates",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := resolveRoots(args)
			if err != nil {
				return err
			}

			cfg := ctx.configValue()
			outcome, err := ctx.runPipeline(cmd, pipeline.Request{
				Trigger:    reports.TriggerManual,
				Roots:      roots,
				Organize:   true,
				Archive:    true,
				Duplicates: pipeline.DuplicatesReview,
				Advise:     cfg.Advisor.Enabled,
				Apply:      apply,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printScanSummary(out, outcome)

			if !outcome.Applied {
				printPlanTable(out, "Organization plan", outcome.OrganizePlan)
				printPlanTable(out, "Archival plan", outcome.ArchivePlan)
				printPlanTable(out, "Duplicate review plan", outcome.DuplicatePlan)
				printDryRunHint(out, outcome.Applied)
			} else {
				printRunResult(out, outcome)
			}

			if recommendations := outcome.Report.Recommendations; recommendations != "" {
				fmt.Fprintln(out, "Recommendations:")
				fmt.Fprintln(out, recommendations)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Execute the combined plan instead of printing it")
	return cmd
}
