// Package mkvpropedit rewrites audio track flags through the mkvpropedit tool.
//
// A Plan names the track losing the default flag (if any), the track gaining
// it, and whether the new default is also marked forced. BuildArgs turns a
// plan into the tool's argument vector and Editor.Apply runs it once,
// deciding success from the captured output.
package mkvpropedit
