package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mkvlang/internal/deps"
	"mkvlang/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [path...]",
		Short: "Verify MKVToolNix binaries and the paths mkvlang writes to",
		Long: `Report whether mkvmerge and mkvpropedit resolve and run, whether the
configured history, log, and debug paths are writable, and (when paths are
given) whether those files or directories can be edited in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg, ctx.toolRunner(cfg))
			fmt.Fprintln(out, renderSectionHeader("Dependencies", colorize))
			for _, status := range statuses {
				fmt.Fprintln(out, renderStatusLine(status.Name, depKind(status), depMessage(status), colorize))
			}

			results := preflight.RunAll(cfg)
			for _, arg := range args {
				if path := strings.TrimSpace(arg); path != "" {
					results = append(results, preflight.CheckMediaAccess("Media "+path, path))
				}
			}
			fmt.Fprintln(out, renderSectionHeader("Paths", colorize))
			if len(results) == 0 {
				fmt.Fprintln(out, renderStatusLine("Paths", statusInfo, "no path checks enabled", colorize))
			}
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			missing := deps.Missing(statuses)
			failed := preflight.Failed(results)
			if len(missing) > 0 || len(failed) > 0 {
				return fmt.Errorf("check failed: %d missing dependencies, %d path problems", len(missing), len(failed))
			}
			return nil
		},
	}
}

func depKind(status deps.Status) statusKind {
	switch {
	case status.Available && status.Detail == "":
		return statusOK
	case status.Available:
		return statusWarn
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func depMessage(status deps.Status) string {
	parts := []string{}
	if status.Path != "" {
		parts = append(parts, status.Path)
	} else if status.Command != "" {
		parts = append(parts, status.Command)
	}
	if status.Version != "" {
		parts = append(parts, status.Version)
	}
	if status.Detail != "" {
		parts = append(parts, status.Detail)
	}
	return strings.Join(parts, " - ")
}
