package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mkvlang/internal/history"
)

type historyEntryJSON struct {
	ID              int64  `json:"id"`
	RunID           string `json:"run_id,omitempty"`
	Path            string `json:"path"`
	Language        string `json:"language"`
	Outcome         string `json:"outcome"`
	ErrorKind       string `json:"error_kind,omitempty"`
	ErrorMessage    string `json:"error,omitempty"`
	PreviousTrackID *int64 `json:"previous_track_id,omitempty"`
	TargetTrackID   *int64 `json:"target_track_id,omitempty"`
	Forced          bool   `json:"forced"`
	CreatedAt       string `json:"created_at"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent default-track edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				payload := make([]historyEntryJSON, 0, len(entries))
				for _, entry := range entries {
					payload = append(payload, historyEntryJSON{
						ID:              entry.ID,
						RunID:           entry.RunID,
						Path:            entry.Path,
						Language:        entry.Language,
						Outcome:         string(entry.Outcome),
						ErrorKind:       entry.ErrorKind,
						ErrorMessage:    entry.ErrorMessage,
						PreviousTrackID: entry.PreviousTrackID,
						TargetTrackID:   entry.TargetTrackID,
						Forced:          entry.Forced,
						CreatedAt:       entry.CreatedAt.Format(time.RFC3339),
					})
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No edits recorded")
				return nil
			}
			headers := []string{"ID", "When", "Outcome", "Lang", "Tracks", "File", "Detail"}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(entry.ID, 10),
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					string(entry.Outcome),
					entry.Language,
					trackChange(entry),
					filepath.Base(entry.Path),
					entry.ErrorKind,
				})
			}
			fmt.Fprintln(out, renderTable("", headers, rows, []columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	return cmd
}

func trackChange(entry history.Entry) string {
	if entry.TargetTrackID == nil {
		return ""
	}
	target := "a" + strconv.FormatInt(*entry.TargetTrackID, 10)
	if entry.PreviousTrackID == nil || *entry.PreviousTrackID == *entry.TargetTrackID {
		return target
	}
	return "a" + strconv.FormatInt(*entry.PreviousTrackID, 10) + " -> " + target
}
