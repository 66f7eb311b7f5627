package mkvpropedit_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mkvlang/internal/media/audio"
	"mkvlang/internal/media/mkvmerge"
	"mkvlang/internal/media/mkvpropedit"
	"mkvlang/internal/services"
	"mkvlang/internal/toolexec"
)

func track(id, number int64) mkvmerge.Track {
	return mkvmerge.Track{
		ID:         id,
		Type:       mkvmerge.TrackTypeAudio,
		Properties: map[string]any{"number": number},
		Audio:      &mkvmerge.AudioInfo{},
	}
}

func TestBuildArgs(t *testing.T) {
	current := track(1, 2)
	target := track(2, 3)

	tests := []struct {
		name     string
		plan     mkvpropedit.Plan
		selector mkvpropedit.Selector
		want     []string
	}{
		{
			name: "switch with force",
			plan: mkvpropedit.Plan{Current: &current, Target: target, Force: true},
			want: []string{"movie.mkv",
				"--edit", "track:a1", "--set", "flag-default=0",
				"--edit", "track:a2", "--set", "flag-default=1",
				"--edit", "track:a2", "--set", "flag-forced=1"},
		},
		{
			name: "no current default",
			plan: mkvpropedit.Plan{Target: target},
			want: []string{"movie.mkv", "--edit", "track:a2", "--set", "flag-default=1"},
		},
		{
			name: "target already default",
			plan: mkvpropedit.Plan{Current: &target, Target: target, Force: true},
			want: []string{"movie.mkv",
				"--edit", "track:a2", "--set", "flag-default=1",
				"--edit", "track:a2", "--set", "flag-forced=1"},
		},
		{
			name:     "number selector",
			plan:     mkvpropedit.Plan{Current: &current, Target: target},
			selector: mkvpropedit.SelectorNumber,
			want: []string{"movie.mkv",
				"--edit", "track:@2", "--set", "flag-default=0",
				"--edit", "track:@3", "--set", "flag-default=1"},
		},
		{
			name: "clear other defaults",
			plan: mkvpropedit.Plan{Current: &current, Target: target, ClearDefaults: []mkvmerge.Track{track(5, 6), target}},
			want: []string{"movie.mkv",
				"--edit", "track:a1", "--set", "flag-default=0",
				"--edit", "track:a5", "--set", "flag-default=0",
				"--edit", "track:a2", "--set", "flag-default=1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mkvpropedit.BuildArgs("movie.mkv", tt.plan, tt.selector)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("BuildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildArgsNumberSelectorFallsBack(t *testing.T) {
	target := mkvmerge.Track{ID: 4, Type: mkvmerge.TrackTypeAudio, Properties: map[string]any{}}
	got := mkvpropedit.BuildArgs("a.mkv", mkvpropedit.Plan{Target: target}, mkvpropedit.SelectorNumber)
	want := []string{"a.mkv", "--edit", "track:a4", "--set", "flag-default=1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildArgs() = %v, want %v", got, want)
	}
}

func TestPlanFor(t *testing.T) {
	current := track(1, 2)
	sel := audio.Selection{Current: &current, Target: track(3, 4), OtherDefaults: []mkvmerge.Track{track(2, 3)}}

	narrow := mkvpropedit.PlanFor(sel, true, false)
	if len(narrow.ClearDefaults) != 0 || !narrow.Force || narrow.Current.ID != 1 {
		t.Fatalf("unexpected narrow plan %+v", narrow)
	}
	wide := mkvpropedit.PlanFor(sel, false, true)
	if len(wide.ClearDefaults) != 1 || wide.ClearDefaults[0].ID != 2 {
		t.Fatalf("unexpected wide plan %+v", wide)
	}
}

func cannedRunner(result toolexec.Result, err error) toolexec.Runner {
	return toolexec.RunnerFunc(func(context.Context, string, ...string) (toolexec.Result, error) {
		return result, err
	})
}

func TestApplySuccessDetection(t *testing.T) {
	plan := mkvpropedit.Plan{Target: track(2, 3)}
	tests := []struct {
		name      string
		result    toolexec.Result
		runErr    error
		detection mkvpropedit.Detection
		want      bool
	}{
		{name: "done", result: toolexec.Result{Output: "The changes are written to the file.\nDone.\n"}, want: true},
		{name: "empty output", result: toolexec.Result{}, want: false},
		{name: "no marker", result: toolexec.Result{Output: "Error: no track with the ID 2 was found.\n", ExitCode: 2}, want: false},
		{name: "marker but non-zero exit", result: toolexec.Result{Output: "Warning: x\nDone.", ExitCode: 1}, want: false},
		{name: "marker mode ignores exit", result: toolexec.Result{Output: "Warning: x\nDone.", ExitCode: 1}, detection: mkvpropedit.DetectMarker, want: true},
		{name: "runner error", result: toolexec.Result{ExitCode: toolexec.ExitUnknown}, runErr: errors.New("exec: not found"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			editor := mkvpropedit.NewEditor("", cannedRunner(tt.result, tt.runErr), mkvpropedit.WithDetection(tt.detection))
			got, err := editor.Apply(context.Background(), "movie.mkv", plan)
			if err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyCustomMarkerAndInvocation(t *testing.T) {
	var gotName string
	var gotArgs []string
	runner := toolexec.RunnerFunc(func(_ context.Context, name string, args ...string) (toolexec.Result, error) {
		gotName, gotArgs = name, args
		return toolexec.Result{Output: "Fertig."}, nil
	})
	editor := mkvpropedit.NewEditor("/usr/local/bin/mkvpropedit", runner, mkvpropedit.WithSuccessMarker("Fertig"))
	ok, err := editor.Apply(context.Background(), "film.mkv", mkvpropedit.Plan{Target: track(1, 2), Force: true})
	if err != nil || !ok {
		t.Fatalf("Apply() = %v, %v", ok, err)
	}
	if gotName != "/usr/local/bin/mkvpropedit" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	if len(gotArgs) == 0 || gotArgs[0] != "film.mkv" {
		t.Fatalf("path must lead the arguments, got %v", gotArgs)
	}
}

func TestApplyRejectsEmptyPath(t *testing.T) {
	editor := mkvpropedit.NewEditor("", cannedRunner(toolexec.Result{Output: "Done"}, nil))
	if _, err := editor.Apply(context.Background(), " ", mkvpropedit.Plan{}); !errors.Is(err, services.ErrEditFailed) {
		t.Fatalf("expected ErrEditFailed, got %v", err)
	}
}
