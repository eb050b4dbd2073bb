// Package tmdb provides an HTTP client for a TMDB-compatible metadata API.
//
// # Overview
//
// The package has two layers. Compose builds a fully-qualified request URL
// from a base URL, a path, caller params, the current session and the
// per-client defaults. Client.Do wraps Compose with one HTTP call, JSON
// decoding and a uniform error contract. Typed helpers (Discover, Search,
// FavoriteList, AccountStates, MarkFavorite, Details, Credits, ...) sit on top
// of Do.
//
// # Request Composition
//
// Every request carries:
//
//   - api_key from configuration
//   - session_id when a session is active
//   - language, unless the caller or the literal path query sets it
//
// Caller params never override api_key or session_id. A param whose value is
// nil (or a nil pointer) is dropped, so an unset filter never reaches the wire
// as an empty or zero value:
//
//	var genre *int // "all genres"
//	page, err := client.Discover(ctx, tmdb.MediaTV, tmdb.Params{
//		"with_genres": genre,
//		"sort_by":     "popularity.desc",
//		"page":        1,
//	})
//
// # Error Handling
//
// Do returns one of four error types, matched with errors.As:
//
//   - *NetworkError: transport failure (connection refused, timeout, cancel)
//   - *HTTPStatusError: non-2xx response, with the status code
//   - *DecodeError: 2xx with a non-empty body that is not valid JSON
//   - *ValidationError: bad method, body, path or param rejected before I/O
//
// An empty 2xx body is not an error; the destination keeps its zero value.
// Nothing is retried here. Retry policy belongs to callers.
//
// Error messages and debug logs carry the request path only. The query string
// holds the api key and session id and is never logged.
//
// # Session
//
// The client reads the session through a session.Source on every request. It
// never writes it.
package tmdb
