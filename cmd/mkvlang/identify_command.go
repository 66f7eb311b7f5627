package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mkvlang/internal/language"
	"mkvlang/internal/media/mkvmerge"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		dumpPath   string
	)

	cmd := &cobra.Command{
		Use:   "identify <file>",
		Short: "List the tracks mkvmerge reports for a file",
		Long: `Run mkvmerge -J on <file> and show its tracks with the flags mkvlang
selects on. --json prints the extracted identification document unchanged.

Examples:
  mkvlang identify movie.mkv
  mkvlang identify movie.mkv --json
  mkvlang identify movie.mkv --dump ./output.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			opts := []mkvmerge.Option{mkvmerge.WithLogger(logger)}
			target := strings.TrimSpace(dumpPath)
			if target == "" && cfg.Debug.DumpIdentifyJSON {
				target = cfg.Debug.DumpPath
			}
			if target != "" {
				fsys := ctx.fs
				if fsys == nil {
					fsys = afero.NewOsFs()
				}
				opts = append(opts, mkvmerge.WithDump(fsys, target))
			}
			identifier := mkvmerge.NewIdentifier(cfg.MkvmergeBinary(), ctx.toolRunner(cfg), opts...)

			path := strings.TrimSpace(args[0])
			doc, err := identifier.Identify(cmd.Context(), path)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, doc)
			}
			file, err := mkvmerge.Parse(doc)
			if err != nil {
				return fmt.Errorf("parse identification of %s: %w", path, err)
			}
			printTracks(cmd, path, file)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the identification JSON")
	cmd.Flags().StringVar(&dumpPath, "dump", "", "Also write the identification JSON to this path")
	return cmd
}

func printTracks(cmd *cobra.Command, path string, file mkvmerge.MediaFile) {
	out := cmd.OutOrStdout()
	container := file.ContainerType()
	if container == "" {
		container = "unknown container"
	}
	fmt.Fprintf(out, "%s (%s, %d tracks)\n", path, container, len(file.Tracks))

	headers := []string{"ID", "Type", "Codec", "Language", "Default", "Forced", "Details"}
	rows := make([][]string, 0, len(file.Tracks))
	for _, track := range file.Tracks {
		lang, _ := track.Language()
		if ietf, ok := track.IETFLanguage(); ok && ietf != "" && ietf != lang {
			lang = strings.TrimSpace(lang + " / " + ietf)
		}
		if lang != "" {
			lang = fmt.Sprintf("%s (%s)", lang, language.DisplayName(lang))
		}
		rows = append(rows, []string{
			strconv.FormatInt(track.ID, 10),
			track.Type.String(),
			track.Codec,
			lang,
			yesNo(track.IsDefault()),
			yesNo(track.IsForced()),
			trackDetails(track),
		})
	}
	fmt.Fprintln(out, renderTable("", headers, rows, []columnAlignment{alignRight}))
}

func trackDetails(track mkvmerge.Track) string {
	var parts []string
	switch {
	case track.Audio != nil:
		if track.Audio.Channels != nil {
			parts = append(parts, strconv.FormatInt(*track.Audio.Channels, 10)+"ch")
		}
		if track.Audio.SamplingFrequency != nil {
			parts = append(parts, strconv.FormatInt(*track.Audio.SamplingFrequency, 10)+" Hz")
		}
	case track.Video != nil:
		if track.Video.PixelDimensions != "" {
			parts = append(parts, track.Video.PixelDimensions)
		}
	}
	if name := strings.TrimSpace(track.Name()); name != "" {
		parts = append(parts, strconv.Quote(name))
	}
	return strings.Join(parts, ", ")
}
