package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filekeeper/internal/preflight"
	"filekeeper/internal/reports"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, preflight checks, and run history health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			roots := "none configured"
			if len(cfg.Scan.Roots) > 0 {
				roots = strings.Join(cfg.Scan.Roots, ", ")
			}
			fmt.Fprintln(out, renderStatusLine("Scan roots", statusInfo, roots, colorize))
			fmt.Fprintln(out, renderStatusLine("Organize mode", statusInfo, cfg.Organize.Mode, colorize))
			fmt.Fprintln(out, renderStatusLine("Archive cutoff", statusInfo, fmt.Sprintf("%d days", cfg.Archive.OldFileThresholdDays), colorize))
			fmt.Fprintln(out, renderStatusLine("Duplicate threshold", statusInfo, formatSize(cfg.DuplicateSizeThresholdBytes()), colorize))
			fmt.Fprintln(out, renderStatusLine("Automation", statusInfo, yesNo(cfg.Automation.Enabled), colorize))
			fmt.Fprintln(out, renderStatusLine("Advisor", statusInfo, yesNo(cfg.Advisor.Enabled), colorize))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			checks := preflight.RunAll(cmd.Context(), cfg)
			for _, check := range checks {
				fmt.Fprintln(out, renderStatusLine(check.Name, passFailKind(check.Passed), check.Detail, colorize))
			}
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Run History", colorize) {
				fmt.Fprintln(out, line)
			}
			printRunHistory(cmd, ctx, colorize)

			if !preflight.Passed(checks) {
				return fmt.Errorf("one or more preflight checks failed")
			}
			return nil
		},
	}
}

// printRunHistory renders report-store health; a store that will not open
// becomes a WARN line rather than a command failure, since the preflight
// section already reports the cause.
func printRunHistory(cmd *cobra.Command, ctx *commandContext, colorize bool) {
	out := cmd.OutOrStdout()

	store, err := ctx.openStore()
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Report store", statusWarn, "unavailable", colorize))
		return
	}
	defer store.Close()

	health, err := store.Health(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Report store", statusWarn, err.Error(), colorize))
		return
	}

	fmt.Fprintln(out, renderStatusLine("Runs recorded", statusInfo, formatCount(health.TotalRuns), colorize))
	fmt.Fprintln(out, renderStatusLine("Completed", statusOK, formatCount(health.Completed), colorize))
	failedKind := statusOK
	if health.Failed > 0 {
		failedKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Failed", failedKind, formatCount(health.Failed), colorize))
	if health.Running > 0 {
		fmt.Fprintln(out, renderStatusLine("Running", statusInfo, formatCount(health.Running), colorize))
	}
	if health.LastRunID == "" {
		fmt.Fprintln(out, renderStatusLine("Last run", statusInfo, "none", colorize))
		return
	}
	lastKind := statusOK
	if health.LastRunStatus == reports.StatusFailed {
		lastKind = statusError
	}
	detail := fmt.Sprintf("%s (%s) at %s", shortID(health.LastRunID), health.LastRunStatus, formatTime(health.LastRunAt))
	fmt.Fprintln(out, renderStatusLine("Last run", lastKind, detail, colorize))
}
