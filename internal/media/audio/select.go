package audio

import (
	"fmt"
	"strconv"
	"strings"

	"mkvlang/internal/media/mkvmerge"
	"mkvlang/internal/services"
)

// Selection describes the tracks a default-language change touches.
type Selection struct {
	// Current is the first default-flagged audio track, nil when none is flagged.
	Current *mkvmerge.Track
	Target  mkvmerge.Track
	// OtherDefaults lists default-flagged audio tracks after Current, excluding Target.
	OtherDefaults []mkvmerge.Track
}

// HasCurrent reports whether an audio track is currently flagged default.
func (s Selection) HasCurrent() bool {
	return s.Current != nil
}

// ClearsCurrent reports whether the current default must be unset, i.e. it
// exists and is a different track from the target.
func (s Selection) ClearsCurrent() bool {
	return s.Current != nil && s.Current.ID != s.Target.ID
}

// CurrentLabel summarizes the current default track, or "" when none exists.
func (s Selection) CurrentLabel() string {
	if s.Current == nil {
		return ""
	}
	return Label(*s.Current)
}

// TargetLabel summarizes the target track.
func (s Selection) TargetLabel() string {
	return Label(s.Target)
}

// LanguageNotFoundError reports that no audio track matched the request.
type LanguageNotFoundError struct {
	Language  string
	Available []string
}

func (e *LanguageNotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %q not found in %q or %q of any audio track", services.ErrLanguageNotFound, e.Language, mkvmerge.PropLanguage, mkvmerge.PropLanguageIETF)
	if len(e.Available) == 0 {
		return msg + " (no audio languages reported)"
	}
	return msg + " (available: " + strings.Join(e.Available, ", ") + ")"
}

// Unwrap ties LanguageNotFoundError to services.ErrLanguageNotFound.
func (e *LanguageNotFoundError) Unwrap() error {
	return services.ErrLanguageNotFound
}

// Select finds the current default audio track and the first audio track in
// language. Track order is the tool's order; ties always go to the earliest.
func Select(file mkvmerge.MediaFile, language string) (Selection, error) {
	tracks := file.AudioTracks()

	var current *mkvmerge.Track
	for i := range tracks {
		if tracks[i].IsDefault() {
			current = &tracks[i]
			break
		}
	}

	targetIdx := -1
	for i := range tracks {
		if matchesLanguage(tracks[i], language) {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		return Selection{}, &LanguageNotFoundError{Language: language, Available: availableLanguages(tracks)}
	}

	sel := Selection{Current: current, Target: tracks[targetIdx]}
	if current != nil {
		for _, track := range tracks {
			if !track.IsDefault() || track.ID == current.ID || track.ID == sel.Target.ID {
				continue
			}
			sel.OtherDefaults = append(sel.OtherDefaults, track)
		}
	}
	return sel, nil
}

func matchesLanguage(track mkvmerge.Track, language string) bool {
	if lang, ok := track.Language(); ok && lang == language {
		return true
	}
	if ietf, ok := track.IETFLanguage(); ok && ietf == language {
		return true
	}
	return false
}

func availableLanguages(tracks []mkvmerge.Track) []string {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]string, 0, len(tracks))
	for _, track := range tracks {
		lang, ok := track.Language()
		if !ok || lang == "" {
			lang, ok = track.IETFLanguage()
		}
		if !ok || lang == "" {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	return out
}

// Label renders a short human-readable summary of an audio track.
func Label(track mkvmerge.Track) string {
	parts := []string{"id " + strconv.FormatInt(track.ID, 10)}
	if lang, ok := track.Language(); ok && lang != "" {
		parts = append(parts, lang)
	}
	if codec := strings.TrimSpace(track.Codec); codec != "" {
		parts = append(parts, codec)
	}
	if track.Audio != nil && track.Audio.Channels != nil {
		parts = append(parts, strconv.FormatInt(*track.Audio.Channels, 10)+"ch")
	}
	if name := strings.TrimSpace(track.Name()); name != "" {
		parts = append(parts, fmt.Sprintf("%q", name))
	}
	if track.IsDefault() {
		parts = append(parts, "default")
	}
	return strings.Join(parts, " ")
}
