// Package overlay tracks what the signed-in account has recorded for each
// catalog item: favorite, watchlist and rating.
//
// # Overview
//
// Listings arrive without personalization. The overlay fills it in lazily,
// one account_states lookup per item, as items appear on screen. It is keyed
// by item ID and shared by every listing, so a title that shows up on two
// screens is looked up once.
//
// # Resolving
//
// There are two ways in:
//
//   - Resolve(ctx, items) claims what is pending, runs the lookups through an
//     errgroup bounded by the configured concurrency, and blocks until done.
//     The CLI uses this form.
//   - Pending, Lookup and Merge split the same flow so the TUI can issue one
//     Bubble Tea command per item and merge each result in Update.
//
// Pending claims an item until its result is merged or its lookup fails.
// Results merge one key at a time; a landing lookup never removes another
// entry, so partial batches keep earlier statuses. A failed lookup leaves the
// entry absent and the item claimable again.
//
// # Sessions
//
// Nothing is looked up or stored without an active session, and Toggle
// returns session.ErrNoSession. Reset (sign-out or account switch) clears the
// map and bumps an epoch:
//
//	Pending ──→ Lookup ─────────────────────→ Merge
//	  epoch 1      │                            │
//	               └── Reset (epoch 2) ──→  epoch differs: dropped
//
// A lookup that started under the old epoch can neither land in the new map
// nor release a claim made after the Reset.
//
// # Toggling
//
// Toggle computes the new value from a current status: if the item is
// unknown or was invalidated, it is read from the server first. The write
// then completes before the item is read back, and the re-read value is what
// gets stored and returned. If the read-back fails, the entry is invalidated
// so the next toggle or resolve starts from the server again. Only one
// toggle per item runs at a time; a second returns ErrToggleInFlight.
package overlay
