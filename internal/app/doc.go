// Package app is the composition root for marquee.
//
// # Overview
//
// Open wires configuration, logging, the API client, the session holder, the
// personalization overlay and the shared state store into an Env. Run builds
// an Env, starts the session watcher and hands everything to the TUI. The
// one-shot CLI commands use Open directly.
//
// # Components
//
//   - app.go: Options, Env, Open, Logout and Run
//   - logging.go: slog text handler writing to the configured log file
//   - poller.go: session file watcher with exponential backoff
//
// # Session watcher
//
// Sign-in happens outside marquee; the login flow writes session.toml. The
// watcher re-reads that file on a fixed cadence. When the session changes it
// resets the overlay and resolves the bound account through GET /account.
// A failed refresh keeps the previous account and doubles the wait, up to 30
// seconds.
//
//	┌───────────────┐   changed?   ┌──────────────┐
//	│ session.toml  │─────────────→│ Holder.Set   │──→ Overlay.Reset
//	└───────────────┘              └──────┬───────┘
//	                                      ↓
//	                               GET /account ──→ Store.Update
//
// # Logging
//
// The TUI owns the terminal, so slog writes to log_file. The in-app log view
// tails the same file.
package app
