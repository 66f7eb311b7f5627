package mkvpropedit

import (
	"strconv"

	"mkvlang/internal/media/audio"
	"mkvlang/internal/media/mkvmerge"
)

// Selector controls how tracks are addressed in --edit arguments.
type Selector string

const (
	// SelectorTypeID addresses tracks as track:a<id> using the identification id.
	SelectorTypeID Selector = "type_id"
	// SelectorNumber addresses tracks as track:@<number> using the Matroska
	// track number, falling back to SelectorTypeID when no number is reported.
	SelectorNumber Selector = "number"
)

// Plan is one default-language change for a single file.
type Plan struct {
	// Current loses flag-default when it is set and differs from Target.
	Current *mkvmerge.Track
	Target  mkvmerge.Track
	// Force also sets flag-forced on Target.
	Force bool
	// ClearDefaults lists extra tracks whose flag-default is unset.
	ClearDefaults []mkvmerge.Track
}

// PlanFor builds a plan from a selection. With clearOthers every further
// default-flagged audio track is cleared as well.
func PlanFor(sel audio.Selection, force, clearOthers bool) Plan {
	plan := Plan{Current: sel.Current, Target: sel.Target, Force: force}
	if clearOthers {
		plan.ClearDefaults = append(plan.ClearDefaults, sel.OtherDefaults...)
	}
	return plan
}

// BuildArgs returns the mkvpropedit argument vector for plan, path first.
func BuildArgs(path string, plan Plan, selector Selector) []string {
	args := []string{path}
	if plan.Current != nil && plan.Current.ID != plan.Target.ID {
		args = append(args, "--edit", trackSpec(*plan.Current, selector), "--set", "flag-default=0")
	}
	for _, track := range plan.ClearDefaults {
		if track.ID == plan.Target.ID || (plan.Current != nil && track.ID == plan.Current.ID) {
			continue
		}
		args = append(args, "--edit", trackSpec(track, selector), "--set", "flag-default=0")
	}
	target := trackSpec(plan.Target, selector)
	args = append(args, "--edit", target, "--set", "flag-default=1")
	if plan.Force {
		args = append(args, "--edit", target, "--set", "flag-forced=1")
	}
	return args
}

func trackSpec(track mkvmerge.Track, selector Selector) string {
	if selector == SelectorNumber {
		if number, ok := track.Number(); ok {
			return "track:@" + strconv.FormatInt(number, 10)
		}
	}
	return "track:a" + strconv.FormatInt(track.ID, 10)
}
