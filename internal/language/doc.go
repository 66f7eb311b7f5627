// Package language turns the language codes reported on audio tracks into
// display names and compares codes across their ISO 639 spellings.
//
// Track selection itself matches codes literally; this package only feeds
// human-facing output and "did you mean" hints.
package language
