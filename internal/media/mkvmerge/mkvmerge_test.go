package mkvmerge_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"mkvlang/internal/media/mkvmerge"
	"mkvlang/internal/services"
	"mkvlang/internal/toolexec"
)

const sampleOutput = `Warning: codec private data looks odd
{
  "container": {"recognized": true, "supported": true, "type": "Matroska"},
  "file_name": "movie.mkv",
  "identification_format_version": 14,
  "tracks": [
    {"codec": "AVC/H.264", "id": 0, "type": "video", "properties": {"number": 1, "display_dimensions": "1920x1080", "pixel_dimensions": "1920x1080", "default_track": true}},
    {"codec": "AC-3", "id": 1, "type": "audio", "properties": {"number": 2, "language": "eng", "default_track": true, "audio_channels": 6, "audio_sampling_frequency": 48000}},
    {"codec": "AAC", "id": 2, "type": "audio", "properties": {"number": 3, "language": "jpn", "language_ietf": "ja", "default_track": false}},
    {"codec": "SubRip/SRT", "id": 3, "type": "subtitles", "properties": {"number": 4, "language": "eng"}}
  ]
}
Done.`

func TestExtractJSON(t *testing.T) {
	doc, err := mkvmerge.ExtractJSON("warning: codec X\n{\"a\":1}\nfinished")
	if err != nil {
		t.Fatalf("ExtractJSON returned error: %v", err)
	}
	want := map[string]any{"a": json.Number("1")}
	if !reflect.DeepEqual(doc, want) {
		t.Fatalf("unexpected document: %#v", doc)
	}
}

func TestExtractJSONFailures(t *testing.T) {
	cases := map[string]string{
		"no object":    "mkvmerge: cannot open file",
		"reversed":     "} oops {",
		"invalid json": "{not json}",
		"empty":        "",
		"two objects":  `{"a":1} and {"b":2}`,
	}
	for name, output := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := mkvmerge.ExtractJSON(output); !errors.Is(err, services.ErrExtraction) {
				t.Fatalf("expected ErrExtraction, got %v", err)
			}
		})
	}
}

func TestParseTrackType(t *testing.T) {
	cases := map[string]mkvmerge.TrackType{
		"audio":     mkvmerge.TrackTypeAudio,
		"AUDIO":     mkvmerge.TrackTypeAudio,
		"Video":     mkvmerge.TrackTypeVideo,
		"sub":       mkvmerge.TrackTypeSub,
		"subtitles": mkvmerge.TrackTypeOther,
		"buttons":   mkvmerge.TrackTypeOther,
		"":          mkvmerge.TrackTypeOther,
	}
	for input, want := range cases {
		if got := mkvmerge.ParseTrackType(input); got != want {
			t.Fatalf("ParseTrackType(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseBuildsVariants(t *testing.T) {
	doc, err := mkvmerge.ExtractJSON(sampleOutput)
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	file, err := mkvmerge.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if file.FileName != "movie.mkv" || file.ContainerType() != "Matroska" {
		t.Fatalf("unexpected container fields: %q %q", file.FileName, file.ContainerType())
	}
	if file.IdentificationFormatVersion != 14 {
		t.Fatalf("unexpected version %d", file.IdentificationFormatVersion)
	}
	if len(file.Tracks) != 4 {
		t.Fatalf("expected 4 tracks, got %d", len(file.Tracks))
	}

	video := file.Tracks[0]
	if video.Type != mkvmerge.TrackTypeVideo || video.Video == nil || video.Audio != nil {
		t.Fatalf("video variant not built: %+v", video)
	}
	if video.Video.DisplayDimensions != "1920x1080" {
		t.Fatalf("unexpected display dimensions %q", video.Video.DisplayDimensions)
	}

	eng := file.Tracks[1]
	if eng.Type != mkvmerge.TrackTypeAudio || eng.Audio == nil || eng.Video != nil {
		t.Fatalf("audio variant not built: %+v", eng)
	}
	if eng.Audio.Channels == nil || *eng.Audio.Channels != 6 {
		t.Fatalf("unexpected channels %v", eng.Audio.Channels)
	}
	if eng.Audio.SamplingFrequency == nil || *eng.Audio.SamplingFrequency != 48000 {
		t.Fatalf("unexpected sampling frequency %v", eng.Audio.SamplingFrequency)
	}
	if !eng.IsDefault() || eng.ID != 1 {
		t.Fatalf("unexpected eng track: %+v", eng)
	}
	if lang, ok := eng.Language(); !ok || lang != "eng" {
		t.Fatalf("unexpected language %q", lang)
	}
	if n, ok := eng.Number(); !ok || n != 2 {
		t.Fatalf("unexpected number %d", n)
	}

	jpn := file.Tracks[2]
	if jpn.Audio.Channels != nil {
		t.Fatalf("absent channels should be nil, got %v", *jpn.Audio.Channels)
	}
	if ietf, ok := jpn.IETFLanguage(); !ok || ietf != "ja" {
		t.Fatalf("unexpected ietf language %q", ietf)
	}

	subs := file.Tracks[3]
	if subs.Type != mkvmerge.TrackTypeOther || subs.Audio != nil || subs.Video != nil {
		t.Fatalf("subtitles should map to OTHER without payload: %+v", subs)
	}
	if subs.RawType != "subtitles" {
		t.Fatalf("raw type not preserved: %q", subs.RawType)
	}

	if audio := file.AudioTracks(); len(audio) != 2 || audio[0].ID != 1 || audio[1].ID != 2 {
		t.Fatalf("unexpected audio tracks: %+v", audio)
	}
}

func TestParseToleratesMissingOptionalFields(t *testing.T) {
	file, err := mkvmerge.Parse(map[string]any{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(file.Tracks) != 0 || file.Chapters == nil || len(file.Chapters) != 0 {
		t.Fatalf("expected empty collections, got %+v", file)
	}
	if file.IdentificationFormatVersion != 0 || file.ContainerType() != "" {
		t.Fatalf("expected absent optional values, got %+v", file)
	}
}

func TestParseRequiresTrackFields(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{
			"type":       "audio",
			"codec":      "AAC",
			"id":         json.Number("3"),
			"properties": map[string]any{},
		}
	}
	for _, field := range []string{"type", "codec", "id", "properties"} {
		t.Run(field, func(t *testing.T) {
			track := base()
			delete(track, field)
			_, err := mkvmerge.Parse(map[string]any{"tracks": []any{track}})
			if !errors.Is(err, services.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var parseErr *mkvmerge.ParseError
			if !errors.As(err, &parseErr) || parseErr.Field != field {
				t.Fatalf("expected ParseError for %q, got %v", field, err)
			}
		})
	}
}

func TestParseRejectsFractionalID(t *testing.T) {
	track := map[string]any{"type": "audio", "codec": "AAC", "id": 1.5, "properties": map[string]any{}}
	if _, err := mkvmerge.Parse(map[string]any{"tracks": []any{track}}); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestIdentifierInspect(t *testing.T) {
	var gotName string
	var gotArgs []string
	runner := toolexec.RunnerFunc(func(_ context.Context, name string, args ...string) (toolexec.Result, error) {
		gotName, gotArgs = name, args
		return toolexec.Result{Output: sampleOutput, ExitCode: 1}, nil
	})
	fs := afero.NewMemMapFs()
	identifier := mkvmerge.NewIdentifier("/opt/mkvmerge", runner, mkvmerge.WithDump(fs, "output.json"))

	file, err := identifier.Inspect(context.Background(), "/media/movie.mkv")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if gotName != "/opt/mkvmerge" || !reflect.DeepEqual(gotArgs, []string{"-J", "/media/movie.mkv"}) {
		t.Fatalf("unexpected invocation %s %v", gotName, gotArgs)
	}
	if len(file.AudioTracks()) != 2 {
		t.Fatalf("expected 2 audio tracks, got %d", len(file.AudioTracks()))
	}

	dumped, err := afero.ReadFile(fs, "output.json")
	if err != nil {
		t.Fatalf("dump not written: %v", err)
	}
	if !strings.HasPrefix(string(dumped), "{") || !strings.HasSuffix(string(dumped), "}") {
		t.Fatalf("dump should hold only the JSON object, got %q", dumped)
	}
}

func TestIdentifierFailures(t *testing.T) {
	t.Run("runner error", func(t *testing.T) {
		runner := toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
			return toolexec.Result{ExitCode: toolexec.ExitUnknown}, errors.New("exec: not found")
		})
		_, err := mkvmerge.NewIdentifier("", runner).Identify(context.Background(), "a.mkv")
		if !errors.Is(err, services.ErrExternalTool) {
			t.Fatalf("expected ErrExternalTool, got %v", err)
		}
	})
	t.Run("no json", func(t *testing.T) {
		runner := toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
			return toolexec.Result{Output: "Error: the file could not be opened", ExitCode: 2}, nil
		})
		_, err := mkvmerge.NewIdentifier("", runner).Inspect(context.Background(), "a.mkv")
		if !errors.Is(err, services.ErrExtraction) {
			t.Fatalf("expected ErrExtraction, got %v", err)
		}
		if n := strings.Count(err.Error(), services.ErrExtraction.Error()); n != 1 {
			t.Fatalf("error should name the failure once, got %q", err)
		}
		if !strings.Contains(err.Error(), "a.mkv") {
			t.Fatalf("error should name the file, got %q", err)
		}
	})
	t.Run("malformed track", func(t *testing.T) {
		runner := toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
			return toolexec.Result{Output: `{"tracks":[{"type":"audio","codec":"AAC","properties":{}}]}`}, nil
		})
		_, err := mkvmerge.NewIdentifier("", runner).Inspect(context.Background(), "a.mkv")
		if !errors.Is(err, services.ErrParse) {
			t.Fatalf("expected ErrParse, got %v", err)
		}
		if n := strings.Count(err.Error(), services.ErrParse.Error()); n != 1 {
			t.Fatalf("error should name the failure once, got %q", err)
		}
	})
}
