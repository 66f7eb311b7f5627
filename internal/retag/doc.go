// Package retag changes which audio track of a Matroska file is flagged
// default, for one file or a whole directory tree.
//
// The single-file pipeline is identify (mkvmerge -J) -> parse -> select ->
// edit (mkvpropedit). Errors carry the services sentinels so callers can
// tell extraction, parse, language, and edit failures apart.
//
// Batch runs discover containers with internal/library, push each through the
// single-file pipeline with forced flags, and never stop on a per-file
// failure: failures (panics included) are logged, recorded in the history
// ledger when one is attached, and returned in Report.Failed in walk
// order. There is no rollback; files edited before a failure stay edited.
package retag
