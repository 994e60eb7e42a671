package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filekeeper/internal/dedup"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var minSizeMB int
	var limit int

	cmd := &cobra.Command{
		Use:   "duplicates [root...]",
		Short: "Find files with identical content",
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
			})
			if err != nil {
				return err
			}

			groups := outcome.Groups
			if minSizeMB > 0 {
				groups = dedup.EligibleGroups(groups, int64(minSizeMB)*1024*1024)
			}
			summary := dedup.BuildSummary(groups, limit)

			if jsonOut {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			if summary.GroupCount == 0 {
				fmt.Fprintln(out, "No duplicates found")
				return nil
			}

			fmt.Fprintf(out, "%s duplicate groups, %s redundant copies, %s reclaimable\n",
				formatCount(summary.GroupCount),
				formatCount(summary.DuplicateCount),
				formatSize(summary.ReclaimableBytes))

			rows := make([][]string, 0, len(summary.Groups))
			for _, group := range summary.Groups {
				rows = append(rows, []string{
					shortID(group.Hash),
					formatSize(group.Size),
					formatCount(group.Count),
					formatSize(group.Size * int64(group.Count-1)),
					shortenPath(group.Keeper),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Hash", "Size", "Copies", "Reclaimable", "Keeper"},
				rows,
				nil,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			if summary.GroupCount > len(summary.Groups) {
				fmt.Fprintf(out, "... and %d more groups; raise --limit to list them\n",
					summary.GroupCount-len(summary.Groups))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the duplicate summary as JSON")
	cmd.Flags().IntVar(&minSizeMB, "min-size", 0, "Only show groups with file size of at least this many MB")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum groups to list in the table")
	return cmd
}
