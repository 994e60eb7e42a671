package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"filekeeper/internal/config"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var apply bool
	var mode string
	var includeOther bool

	cmd := &cobra.Command{
		Use:   "organize [root...]",
		Short: "Plan or execute category-based file organization",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots, err := resolveRoots(args)
			if err != nil {
				return err
			}

			cfg := ctx.configValue()
			if mode != "" {
				normalized := strings.ToLower(strings.TrimSpace(mode))
				if normalized != config.OrganizeModeFlat && normalized != config.OrganizeModeDated {
					return fmt.Errorf("invalid organize mode %q (expected %s or %s)",
						mode, config.OrganizeModeFlat, config.OrganizeModeDated)
				}
				cfg.Organize.Mode = normalized
			}
			if cmd.Flags().Changed("include-other") {
				cfg.Organize.IncludeOther = includeOther
			}

			outcome, err := ctx.runPipeline(cmd, pipeline.Request{
				Trigger:  reports.TriggerManual,
				Roots:    roots,
				Organize: true,
				Apply:    apply,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !outcome.Applied {
				printPlanTable(out, "Organization plan", outcome.OrganizePlan)
				printDryRunHint(out, outcome.Applied)
				return nil
			}
			printRunResult(out, outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Execute the plan instead of printing it")
	cmd.Flags().StringVar(&mode, "mode", "", "Organize layout: flat or dated (default from config)")
	cmd.Flags().BoolVar(&includeOther, "include-other", false, "Also organize files without a recognized category")
	return cmd
}
