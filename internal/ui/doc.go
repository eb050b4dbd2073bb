// Package ui provides the terminal user interface for marquee.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds every piece of screen state and
// Update is the only place it changes. Network work runs inside tea.Cmd
// functions and comes back as messages, so page results, status lookups and
// toggles are applied one at a time in arrival order.
//
// # Package Structure
//
//   - app.go: Model, Options, message dispatch and Run
//   - input.go: key handling per screen, including the search box
//   - commands.go: message types and the tea.Cmd constructors
//   - screens.go: tab enum, per-tab list state and filter mutations
//   - header.go: header, command bar and footer
//   - list.go: listing rows, markers and the load-more row
//   - detail.go: side pane and full-screen item details
//   - logs.go: in-app tail of the log file
//   - help.go: keyboard shortcut overlay
//   - theme.go, style_helpers.go, strings.go: styling and text helpers
//
// # Screens
//
//   - Discover: filterable browse by genre, year, minimum score and sort
//   - Search: title search, fed by the "/" input
//   - Trending: the weekly trending list
//   - Favorites: the signed-in account's favorites
//   - Logs: the application log, following by default
//
// # Paging
//
// Each list screen owns a catalog.Controller. A filter change starts a reset
// and any page that arrives for an older filter is dropped by
// Controller.Apply. The cursor can reach a trailing row that loads the next
// page, shows progress, or offers a retry after a failed append.
//
// # Personalization
//
// After a page is applied, every item without a known status is looked up
// through overlay.Overlay. Rows show ★ for favorites, ◆ for the watchlist,
// ✓ for rated titles, and · while a status is unknown. Markers are hidden
// when nobody is signed in. A favorite toggle refreshes the Favorites screen.
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context: ctx,
//		Client:  client,
//		Overlay: ov,
//		Session: holder,
//		Store:   store,
//		Config:  &cfg,
//	})
package ui
