package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mkvlang/internal/retag"
	"mkvlang/internal/services"
)

type batchFileJSON struct {
	Path       string `json:"path"`
	Outcome    string `json:"outcome"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type batchReportJSON struct {
	RunID      string          `json:"run_id"`
	Root       string          `json:"root"`
	Language   string          `json:"language"`
	Succeeded  int             `json:"succeeded"`
	Skipped    int             `json:"skipped"`
	Failed     []string        `json:"failed"`
	Files      []batchFileJSON `json:"files"`
	DurationMS int64           `json:"duration_ms"`
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		workers       int
		skipProcessed bool
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "batch <directory> <language>",
		Short: "Switch the default audio track of every .mkv file below a directory",
		Long: `Recursively find files ending in batch.extension (".mkv", any letter case)
below <directory> and run "mkvlang set" on each with forced flags. A failing
file never stops the run; the failures are listed at the end and the command
exits non-zero. Files edited before a failure stay edited.

Examples:
  mkvlang batch /srv/anime jpn
  mkvlang batch /srv/anime jpn --workers 4 --skip-processed
  mkvlang batch /srv/anime jpn --json > report.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			root := strings.TrimSpace(args[0])
			lang := strings.TrimSpace(args[1])

			if cmd.Flags().Changed("workers") {
				if workers < 1 {
					return fmt.Errorf("--workers must be at least 1")
				}
				cfg.Batch.Workers = workers
			}
			if cmd.Flags().Changed("skip-processed") {
				cfg.Batch.SkipProcessed = skipProcessed
			}

			svc, _, cleanup, err := ctx.openService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.ChangeDefaultTrackLanguageBatch(cmd.Context(), root, lang)
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, batchReportToJSON(report)); err != nil {
					return err
				}
			} else {
				printBatchReport(cmd, report)
			}
			if !report.OK() {
				return fmt.Errorf("%d of %d files failed", len(report.Failed), len(report.Files))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Files processed in parallel (overrides batch.workers)")
	cmd.Flags().BoolVar(&skipProcessed, "skip-processed", false, "Skip files already switched to this language and unchanged since (overrides batch.skip_processed)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run report as JSON")
	return cmd
}

func printBatchReport(cmd *cobra.Command, report retag.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %d files, %d succeeded, %d skipped, %d failed (%s)\n",
		report.RunID, len(report.Files), report.Succeeded, report.Skipped, len(report.Failed),
		report.Duration.Round(time.Millisecond))
	if report.OK() {
		return
	}
	fmt.Fprintln(out, "Failed files:")
	for _, path := range report.Failed {
		fmt.Fprintf(out, "  %s\n", path)
	}
}

func batchReportToJSON(report retag.Report) batchReportJSON {
	out := batchReportJSON{
		RunID:      report.RunID,
		Root:       report.Root,
		Language:   report.Language,
		Succeeded:  report.Succeeded,
		Skipped:    report.Skipped,
		Failed:     append([]string{}, report.Failed...),
		Files:      make([]batchFileJSON, 0, len(report.Files)),
		DurationMS: report.Duration.Milliseconds(),
	}
	for _, file := range report.Files {
		entry := batchFileJSON{
			Path:       file.Path,
			Outcome:    string(file.Outcome),
			DurationMS: file.Duration.Milliseconds(),
		}
		if file.Err != nil {
			entry.ErrorKind = services.Kind(file.Err)
			entry.Error = file.Err.Error()
		}
		out.Files = append(out.Files, entry)
	}
	return out
}
