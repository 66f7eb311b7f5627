// Package mkvmerge provides a typed model over `mkvmerge -J` identification
// output.
//
// The identification document is decoded into a generic map first and then
// interpreted: track entries become Track values whose variant payload (audio
// or video) follows the mapped TrackType, while every tool-reported property
// stays available through the Properties map. Container-level collections the
// rest of mkvlang never inspects (chapters, attachments, tags) are kept
// opaque.
//
// Key types:
//   - MediaFile: one identified container
//   - Track: a stream with shared fields plus an optional Audio or Video payload
//   - Identifier: runs mkvmerge through a toolexec.Runner and extracts the JSON
//
// Primary entry points:
//   - Parse: builds a MediaFile from a decoded document
//   - ExtractJSON: locates the JSON object inside raw tool output
//   - Identifier.Identify / Identifier.Inspect
package mkvmerge
