// Package toolexec is the process boundary for the mkvtoolnix binaries.
//
// Runner executes a tool to completion and returns its combined output and
// exit status. The media packages depend only on the Runner interface so
// tests can inject canned tool output without a media file on disk.
package toolexec
