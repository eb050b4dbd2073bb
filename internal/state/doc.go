// Package state holds the data the UI renders.
//
// Store carries account-level data refreshed by the session watcher in
// package app: the bound account, the session version it was resolved for,
// and a failure counter used for the offline badge. Update keeps the last
// good account on error and only records the failure.
//
// Build produces the per-screen View by joining a catalog.Snapshot with the
// overlay statuses. Each entry is an item plus an optional status; an item
// whose status has not been resolved yet renders without markers.
//
// Both Store.Snapshot and Build return copies, so the UI can read them while
// background commands keep writing.
package state
