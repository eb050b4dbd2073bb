// Package catalog keeps an incrementally loaded, deduplicated catalog listing
// in sync with the current filter.
//
// # Overview
//
// Every listing screen (discover, search, trending, themes, favorites) is a
// Controller fed by a Source. The Source knows which endpoint to call; the
// Controller knows nothing about HTTP. It only tracks the filter, the page
// cursor, the accumulated items and whether more pages remain.
//
// # State Machine
//
//	          SetFilter / Reload
//	  Idle ──────────────────────→ LoadingReset ──Apply──→ Settled
//	                                    ↑                   │  │
//	                                    │   filter changed  │  │ LoadMore
//	                                    └───────────────────┘  ↓
//	                                                     LoadingAppend
//	                                                           │
//	                                        Settled ←──Apply───┘
//
// SetFilter (or Reload) clears the list and asks for page 1 before the fetch
// resolves, so the UI never shows items from the previous filter. SetFilter
// with an equal filter is a no-op. LoadMore asks for the next page only
// while settled and while more results remain; a second LoadMore while one
// is in flight does nothing.
//
// # Requests and Stale Results
//
// Every call that starts a fetch returns a Request. The caller runs it
// (Execute, or a Bubble Tea command) and hands the result back to Apply:
//
//	req, ok := ctrl.SetFilter(f)
//	if ok {
//		page, err := source(ctx, req.Filter, req.Page)
//		applied, err := ctrl.Apply(req, page, err)
//	}
//
// Each reset bumps a generation counter carried by its Request. Apply drops
// any result whose generation is no longer current, so a slow page for an old
// filter never lands in the new list. The HTTP call itself is not aborted.
//
// # Has More
//
// HasMore is TotalResults strictly greater than the number of items held.
// The list also ends early when an append page is empty or the last page
// reported by total_pages has been applied; the server caps listings at a
// fixed page count while total_results keeps counting.
//
// # Failures
//
//   - Reset failure: the list stays empty and Snapshot.ErrKind is ResetFailed.
//   - Append failure: loaded items and the cursor are kept, ErrKind is
//     AppendFailed, and the next LoadMore retries the same page.
//
// # Deduplication
//
// Items are deduplicated by ID with Dedup and Merge. The first occurrence
// wins and arrival order is kept, so a title that shifts between pages while
// the user scrolls appears once.
//
// # Filters and Sources
//
// Filter carries every optional parameter as a pointer; nil means "not set"
// and never reaches the wire. Filter.Params maps it onto query parameters.
// Themes are fixed filter presets (genre, keyword, original language) served
// through the Theme source.
package catalog
