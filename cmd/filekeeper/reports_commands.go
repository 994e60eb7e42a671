package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filekeeper/internal/reports"
)

func newReportsCommand(ctx *commandContext) *cobra.Command {
	reportsCmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect stored run reports",
	}

	reportsCmd.AddCommand(newReportsListCommand(ctx))
	reportsCmd.AddCommand(newReportsShowCommand(ctx))
	reportsCmd.AddCommand(newReportsExportCommand(ctx))
	reportsCmd.AddCommand(newReportsPruneCommand(ctx))

	return reportsCmd
}

func newReportsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, list)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, report := range list {
				rows = append(rows, []string{
					shortID(report.ID),
					report.Trigger,
					string(report.Status),
					formatTime(report.StartedAt),
					formatRunDuration(report.StartedAt, report.FinishedAt),
					formatCount(report.FilesScanned),
					formatCount(report.FilesOrganized),
					formatCount(report.FilesArchived),
					formatCount(report.DuplicatesHandled),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Trigger", "Status", "Started", "Duration", "Scanned", "Organized", "Archived", "Duplicates"},
				rows,
				nil,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the runs as JSON")
	return cmd
}

func newReportsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := lookupReport(cmd, store, args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, report)
			}

			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run as JSON")
	return cmd
}

func newReportsExportCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Write one run to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := lookupReport(cmd, store, args[0])
			if err != nil {
				return err
			}

			target := strings.TrimSpace(dir)
			if target == "" {
				target = ctx.configValue().ReportsDir()
			}
			path, err := reports.ExportJSON(report, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Destination directory (default: the configured reports directory)")
	return cmd
}

func newReportsPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs, keeping the most recent",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs, kept the %d most recent\n", removed, keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 50, "Number of most recent runs to keep")
	return cmd
}

// lookupReport fetches a report by exact ID, falling back to a unique prefix
// match over recent runs so short table IDs remain usable.
func lookupReport(cmd *cobra.Command, store *reports.Store, id string) (*reports.RunReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("run id is required")
	}

	report, err := store.Get(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if report != nil {
		return report, nil
	}

	list, err := store.List(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var match *reports.RunReport
	for _, candidate := range list {
		if !strings.HasPrefix(candidate.ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run id %q is ambiguous", id)
		}
		match = candidate
	}
	if match == nil {
		return nil, fmt.Errorf("run %q not found", id)
	}
	return match, nil
}

func printReport(cmd *cobra.Command, report *reports.RunReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Run "+shortID(report.ID), colorize) {
		fmt.Fprintln(out, line)
	}
	kind := statusOK
	switch report.Status {
	case reports.StatusFailed:
		kind = statusError
	case reports.StatusRunning:
		kind = statusInfo
	}
	fmt.Fprintln(out, renderStatusLine("Status", kind, string(report.Status), colorize))
	fmt.Fprintln(out, renderStatusLine("Trigger", statusInfo, report.Trigger, colorize))
	fmt.Fprintln(out, renderStatusLine("Started", statusInfo, formatTime(report.StartedAt), colorize))
	fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, formatRunDuration(report.StartedAt, report.FinishedAt), colorize))
	if len(report.Roots) > 0 {
		fmt.Fprintln(out, renderStatusLine("Roots", statusInfo, strings.Join(report.Roots, ", "), colorize))
	}
	if report.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, report.ErrorMessage, colorize))
	}
	fmt.Fprintln(out)

	rows := [][]string{
		{"Files scanned", formatCount(report.FilesScanned)},
		{"Files organized", formatCount(report.FilesOrganized)},
		{"Files archived", formatCount(report.FilesArchived)},
		{"Duplicates handled", formatCount(report.DuplicatesHandled)},
		{"Failed actions", formatCount(report.FailedCount)},
		{"Bytes moved", formatSize(report.BytesMoved)},
		{"Bytes freed", formatSize(report.BytesFreed)},
		{"Warnings", formatCount(report.WarningCount)},
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Metric", "Value"},
		rows,
		nil,
		[]columnAlignment{alignLeft, alignRight},
	))

	if report.Duplicates != nil && report.Duplicates.GroupCount > 0 {
		fmt.Fprintf(out, "Duplicates: %s groups, %s reclaimable\n",
			formatCount(report.Duplicates.GroupCount),
			formatSize(report.Duplicates.ReclaimableBytes))
	}
	if report.Recommendations != "" {
		fmt.Fprintln(out, "Recommendations:")
		fmt.Fprintln(out, report.Recommendations)
	}
}
