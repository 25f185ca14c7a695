// Package logtail reads the tail of the panel's own log file for the
// activity overlay.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// O(maxLines) regardless of file size, and returns them in file order. A
// missing file yields nil, nil because the panel may not have logged yet.
//
// Parse understands the layout written by internal/logging:
//
//	2026-10-18 09:14:02 WARN status poll failed err="connection refused"
//
// and splits it into timestamp, level, message and trailing key=value
// fields. Anything else is returned as a bare message; styling is left to
// the UI.
package logtail
