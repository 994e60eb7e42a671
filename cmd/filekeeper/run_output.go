package main

import (
	"fmt"
	"io"

	"filekeeper/internal/catalog"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/planner"
)

// maxWarningLines bounds the warning detail echoed after a scan; the full
// list is persisted with the run report.
const maxWarningLines = 5

func printScanSummary(out io.Writer, outcome *pipeline.Outcome) {
	scan := outcome.Scan
	fmt.Fprintf(out, "Scanned %s files (%s) across %d root(s)\n",
		formatCount(scan.TotalFiles), formatSize(scan.TotalBytes), len(scan.Roots))

	if len(scan.Roots) > 1 {
		rows := make([][]string, 0, len(scan.Roots))
		for _, root := range scan.Roots {
			truncated := ""
			if root.Truncated {
				truncated = "yes"
			}
			rows = append(rows, []string{
				shortenPath(root.Root),
				formatCount(root.TotalFiles),
				formatSize(root.TotalBytes),
				formatCount(root.WarningCount),
				truncated,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Root", "Files", "Size", "Warnings", "Truncated"},
			rows,
			nil,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
		))
	}

	if len(scan.Categories) > 0 {
		rows := make([][]string, 0, len(scan.Categories))
		for _, stat := range scan.Categories {
			rows = append(rows, []string{
				stat.Category.FolderName(),
				formatCount(stat.Count),
				formatSize(stat.Bytes),
			})
		}
		footer := []string{"Total", formatCount(scan.TotalFiles), formatSize(scan.TotalBytes)}
		fmt.Fprintln(out, renderTable(
			[]string{"Category", "Files", "Size"},
			rows,
			footer,
			[]columnAlignment{alignLeft, alignRight, alignRight},
		))
	}
}

func printScanWarnings(out io.Writer, warnings []catalog.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(out, "%d warning(s):\n", len(warnings))
	for i, warning := range warnings {
		if i == maxWarningLines {
			fmt.Fprintf(out, "  ... and %d more (kept with the run report)\n", len(warnings)-maxWarningLines)
			break
		}
		detail := warning.Detail
		if detail == "" {
			detail = warning.Kind
		}
		if warning.Path != "" {
			fmt.Fprintf(out, "  %s: %s\n", shortenPath(warning.Path), detail)
		} else {
			fmt.Fprintf(out, "  %s\n", detail)
		}
	}
}

func printPlanTable(out io.Writer, title string, plan planner.Plan) {
	if plan.IsEmpty() {
		fmt.Fprintf(out, "%s: nothing to do\n", title)
		return
	}

	rows := make([][]string, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		action := "move"
		destination := shortenPath(entry.Destination)
		if entry.Kind == planner.EntryDelete {
			action = "delete"
			destination = "-"
		}
		rows = append(rows, []string{
			action,
			shortenPath(entry.Source),
			destination,
			formatSize(entry.Size),
		})
	}
	fmt.Fprintf(out, "%s (%d entries, %s):\n", title, len(plan.Entries), formatSize(plan.TotalBytes()))
	fmt.Fprintln(out, renderTable(
		[]string{"Action", "Source", "Destination", "Size"},
		rows,
		nil,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
}

func printRunResult(out io.Writer, outcome *pipeline.Outcome) {
	report := outcome.Report
	fmt.Fprintf(out, "Organized %s, archived %s, duplicates handled %s\n",
		formatCount(report.FilesOrganized),
		formatCount(report.FilesArchived),
		formatCount(report.DuplicatesHandled))
	if report.BytesMoved > 0 {
		fmt.Fprintf(out, "Moved %s\n", formatSize(report.BytesMoved))
	}
	if report.BytesFreed > 0 {
		fmt.Fprintf(out, "Freed %s\n", formatSize(report.BytesFreed))
	}
	printFailures(out, outcome)
	fmt.Fprintf(out, "Run ID: %s\n", report.ID)
}

func printFailures(out io.Writer, outcome *pipeline.Outcome) {
	failures := outcome.Report.Failures
	if len(failures) == 0 {
		return
	}
	rows := make([][]string, 0, len(failures))
	for _, failure := range failures {
		rows = append(rows, []string{shortenPath(failure.Path), string(failure.Kind), failure.Cause})
	}
	fmt.Fprintf(out, "%d action(s) failed:\n", len(failures))
	fmt.Fprintln(out, renderTable(
		[]string{"Path", "Action", "Cause"},
		rows,
		nil,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
}

func printDryRunHint(out io.Writer, applied bool) {
	if applied {
		return
	}
	fmt.Fprintln(out, "Dry run; re-run with --apply to execute.")
}
