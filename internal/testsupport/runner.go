package testsupport

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"testing"

	"mkvlang/internal/toolexec"
)

// EditDone is a canned successful mkvpropedit result.
var EditDone = toolexec.Result{Output: "The file is being analyzed.\nThe changes are written to the file.\nDone.\n"}

// Call records one FakeRunner invocation.
type Call struct {
	Name string
	Args []string
}

// FakeRunner answers mkvmerge and mkvpropedit invocations from canned
// results keyed by media path. It is safe for concurrent use.
type FakeRunner struct {
	mu sync.Mutex

	// Identify maps a media path to the `mkvmerge -J` result.
	Identify map[string]toolexec.Result
	// Edit maps a media path to the mkvpropedit result; EditDone when absent.
	Edit map[string]toolexec.Result
	// Panic makes any call touching the path panic with the given value.
	Panic map[string]any

	calls []Call
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Identify: make(map[string]toolexec.Result),
		Edit:     make(map[string]toolexec.Result),
		Panic:    make(map[string]any),
	}
}

// Run implements toolexec.Runner.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (toolexec.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Name: name, Args: slices.Clone(args)})

	if len(args) >= 2 && args[0] == "-J" {
		path := args[1]
		if value, ok := f.Panic[path]; ok {
			panic(value)
		}
		if result, ok := f.Identify[path]; ok {
			return result, nil
		}
		return toolexec.Result{Output: "Error: The file '" + path + "' could not be opened for reading.", ExitCode: 2}, nil
	}
	if len(args) >= 1 {
		if result, ok := f.Edit[args[0]]; ok {
			return result, nil
		}
	}
	return EditDone, nil
}

// Calls returns a copy of the recorded invocations.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// EditCalls returns the recorded mkvpropedit invocations.
func (f *FakeRunner) EditCalls() []Call {
	var out []Call
	for _, call := range f.Calls() {
		if len(call.Args) > 0 && call.Args[0] != "-J" {
			out = append(out, call)
		}
	}
	return out
}

// AudioTrack builds a mkvmerge -J track entry for an audio stream.
func AudioTrack(id int, language string, isDefault bool) map[string]any {
	return map[string]any{
		"id":    id,
		"type":  "audio",
		"codec": "AC-3",
		"properties": map[string]any{
			"number":        id + 1,
			"language":      language,
			"default_track": isDefault,
			"forced_track":  false,
		},
	}
}

// VideoTrack builds a mkvmerge -J track entry for a video stream.
func VideoTrack(id int) map[string]any {
	return map[string]any{
		"id":    id,
		"type":  "video",
		"codec": "AVC/H.264/MPEG-4p10",
		"properties": map[string]any{
			"number":             id + 1,
			"default_track":      true,
			"display_dimensions": "1920x1080",
			"pixel_dimensions":   "1920x1080",
		},
	}
}

// IdentifyOutput renders a plausible `mkvmerge -J` output for fileName.
func IdentifyOutput(t testing.TB, fileName string, tracks ...map[string]any) toolexec.Result {
	t.Helper()
	if tracks == nil {
		tracks = []map[string]any{}
	}
	doc := map[string]any{
		"container": map[string]any{
			"recognized": true,
			"supported":  true,
			"type":       "Matroska",
		},
		"errors":                        []any{},
		"file_name":                     fileName,
		"identification_format_version": 14,
		"tracks":                        tracks,
		"warnings":                      []any{},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshal identify output: %v", err)
	}
	return toolexec.Result{Output: string(data) + "\n"}
}
