// Package config loads marquee's configuration file.
//
// # Resolution
//
// Load reads ~/.config/marquee/config.toml unless a path is given. A missing
// file is not an error; every field has a default. Empty values in the file
// also fall back to defaults. After the file, two environment variables take
// precedence:
//
//   - TMDB_API_KEY overrides api_key
//   - TMDB_API_URL overrides api_url
//
// The CLI loads a .env file from the working directory before calling Load,
// so either variable may live there.
//
// # Fields
//
//	api_url          = "https://api.themoviedb.org/3"
//	api_key          = ""
//	language         = "zh-TW"
//	region           = ""
//	image_base_url   = "https://image.tmdb.org/t/p"
//	session_file     = "~/.config/marquee/session.toml"
//	log_file         = "~/.local/state/marquee/marquee.log"
//	page_concurrency = 6
//
// Tilde paths are expanded. page_concurrency bounds parallel status lookups
// and is clamped to 32.
//
// # Errors
//
// Load fails on path expansion, read and TOML parse errors. Validate reports
// ErrMissingAPIKey when no key is configured; commands that talk to the API
// call it before building a client.
package config
