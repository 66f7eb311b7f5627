// Package services defines the error kinds and context annotations shared by
// the media packages and the retag pipeline.
//
// Single-file operations wrap failures with one of the sentinel markers so
// callers can branch on cause with errors.Is; the batch driver relies on the
// same markers to summarize failures. Context helpers carry the batch run ID
// and the container path so logging can tag every line consistently.
package services
