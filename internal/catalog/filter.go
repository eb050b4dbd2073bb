package catalog

import (
	"strings"

	"github.com/five82/marquee/internal/tmdb"
)

// SortOrder is the sort direction suffix of sort_by.
type SortOrder string

const (
	Desc SortOrder = "desc"
	Asc  SortOrder = "asc"
)

// Toggle flips the direction.
func (o SortOrder) Toggle() SortOrder {
	if o == Asc {
		return Desc
	}
	return Asc
}

// SortField is a selectable sort key.
type SortField struct {
	Key   string
	Label string
}

var (
	movieSortFields = []SortField{
		{Key: "popularity", Label: "Popularity"},
		{Key: "vote_average", Label: "Rating"},
		{Key: "primary_release_date", Label: "Release date"},
		{Key: "vote_count", Label: "Vote count"},
	}
	tvSortFields = []SortField{
		{Key: "popularity", Label: "Popularity"},
		{Key: "vote_average", Label: "Rating"},
		{Key: "first_air_date", Label: "First air date"},
		{Key: "vote_count", Label: "Vote count"},
	}
)

// SortFields returns the sort keys available for a media type.
func SortFields(media tmdb.MediaType) []SortField {
	src := movieSortFields
	if media == tmdb.MediaTV {
		src = tvSortFields
	}
	out := make([]SortField, len(src))
	copy(out, src)
	return out
}

// Filter is the listing configuration. Nil pointer fields mean "not set" and
// are omitted from requests. Compare with Equal, not ==.
type Filter struct {
	Media     tmdb.MediaType
	GenreID   *int
	Year      *int
	MinScore  *float64
	SortField string
	SortOrder SortOrder
	Query     string
	Language  string
	Region    string

	// Keywords is a with_keywords expression: comma for AND, pipe for OR.
	Keywords         *string
	OriginalLanguage *string
}

// Int returns a pointer to v, for optional filter fields.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for optional filter fields.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v, for optional filter fields.
func String(v string) *string { return &v }

// Equal reports whether every field of f and o matches.
func (f Filter) Equal(o Filter) bool {
	return f.Media == o.Media &&
		eqPtr(f.GenreID, o.GenreID) &&
		eqPtr(f.Year, o.Year) &&
		eqPtr(f.MinScore, o.MinScore) &&
		f.SortField == o.SortField &&
		f.SortOrder == o.SortOrder &&
		f.Query == o.Query &&
		f.Language == o.Language &&
		f.Region == o.Region &&
		eqPtr(f.Keywords, o.Keywords) &&
		eqPtr(f.OriginalLanguage, o.OriginalLanguage)
}

// Clone returns a copy that shares no pointers with f.
func (f Filter) Clone() Filter {
	out := f
	if f.GenreID != nil {
		out.GenreID = Int(*f.GenreID)
	}
	if f.Year != nil {
		out.Year = Int(*f.Year)
	}
	if f.MinScore != nil {
		out.MinScore = Float(*f.MinScore)
	}
	if f.Keywords != nil {
		out.Keywords = String(*f.Keywords)
	}
	if f.OriginalLanguage != nil {
		out.OriginalLanguage = String(*f.OriginalLanguage)
	}
	return out
}

// SortBy formats sort_by as "<field>.<asc|desc>", or "" when unsorted.
func (f Filter) SortBy() string {
	field := strings.TrimSpace(f.SortField)
	if field == "" {
		return ""
	}
	order := f.SortOrder
	if order != Asc {
		order = Desc
	}
	return field + "." + string(order)
}

// Params maps the filter onto listing query parameters for page.
func (f Filter) Params(page int) tmdb.Params {
	yearKey := "primary_release_year"
	if f.Media == tmdb.MediaTV {
		yearKey = "first_air_date_year"
	}
	params := tmdb.Params{
		"with_genres":            f.GenreID,
		yearKey:                  f.Year,
		"vote_average.gte":       f.MinScore,
		"with_keywords":          f.Keywords,
		"with_original_language": f.OriginalLanguage,
		"page":                   page,
	}
	if sortBy := f.SortBy(); sortBy != "" {
		params["sort_by"] = sortBy
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		params["query"] = q
	}
	// language is only set when chosen, so the client default still applies.
	if lang := strings.TrimSpace(f.Language); lang != "" {
		params["language"] = lang
	}
	if region := strings.TrimSpace(f.Region); region != "" {
		params["region"] = region
	}
	return params
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
