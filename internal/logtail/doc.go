// Package logtail reads the tail of marquee's log file for the in-app log
// view.
//
// The TUI owns the terminal, so slog output goes to a file instead. Read
// keeps only the last N lines in a ring buffer, which keeps memory flat no
// matter how large the file grows. Level and Message pull the two attributes
// the log view colors and shows from slog's text format:
//
//	time=2026-01-02T15:04:05Z level=WARN msg="status lookup failed" id=603
//
// A missing log file is not an error; the view simply shows nothing yet.
package logtail
