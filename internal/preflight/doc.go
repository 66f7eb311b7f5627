// Package preflight provides readiness checks for the paths and binaries
// mkvlang depends on.
//
// The CLI "mkvlang check" command renders these results, and the batch
// command runs CheckMediaAccess on its root before discovery. Each check is
// gated by its config toggle; disabled features are skipped.
package preflight
