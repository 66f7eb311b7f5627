// Package audio picks the audio tracks involved in a default-language change.
//
// Selection is positional and exact: the current default is the first audio
// track flagged default_track, and the target is the first audio track whose
// language or language_ietf equals the requested code. No normalization of
// language codes is attempted.
//
// Key types:
//   - Selection: current default, target, and any further default-flagged tracks
//   - LanguageNotFoundError: no audio track carries the requested language
//
// Primary entry point:
//   - Select
package audio
