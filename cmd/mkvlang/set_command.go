package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mkvlang/internal/language"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	var noForce bool

	cmd := &cobra.Command{
		Use:   "set <file> <language>",
		Short: "Make the audio track in <language> the default track of one file",
		Long: `Identify <file> with mkvmerge, pick the first audio track whose language or
IETF language tag equals <language> exactly, and flag it default (and forced,
unless --no-force or edit.force = false) with mkvpropedit. The previous
default audio track loses its default flag.

Examples:
  mkvlang set movie.mkv jpn
  mkvlang set movie.mkv pt-BR --no-force`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			path := strings.TrimSpace(args[0])
			lang := strings.TrimSpace(args[1])

			force := cfg.Edit.Force
			if cmd.Flags().Changed("no-force") {
				force = !noForce
			}

			svc, _, cleanup, err := ctx.openService(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := svc.ChangeDefaultTrackLanguage(cmd.Context(), path, lang, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: default audio track is now %s (%s)\n", path, lang, language.DisplayName(lang))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noForce, "no-force", false, "Do not set flag-forced on the new default track")
	return cmd
}
