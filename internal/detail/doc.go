// Package detail assembles everything the detail view shows for one title.
//
// Load fetches the title record together with its credits, videos,
// recommendations, reviews and watch providers concurrently. The title record
// is required; every other section is best-effort, so a failed section is
// logged, named in Bundle.Missing and left empty.
package detail
