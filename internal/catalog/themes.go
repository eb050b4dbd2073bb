package catalog

import (
	"context"
	"strings"

	"github.com/five82/marquee/internal/tmdb"
)

// DefaultThemeRegion is the discover region used for themes when none is
// configured.
const DefaultThemeRegion = "TW"

// ThemePreset is a curated discover listing: a fixed media type narrowed by
// genre, keywords or original language.
type ThemePreset struct {
	Slug             string
	Title            string
	Media            tmdb.MediaType
	GenreID          *int
	Keywords         *string
	OriginalLanguage *string
}

// Keyword ids are TMDb keyword ids.
var themePresets = []ThemePreset{
	{Slug: "anime", Title: "Anime", Media: tmdb.MediaTV, GenreID: Int(16), OriginalLanguage: String("ja")},
	{Slug: "k-drama", Title: "Korean drama", Media: tmdb.MediaTV, GenreID: Int(18), OriginalLanguage: String("ko")},
	{Slug: "taiwan", Title: "Taiwanese cinema", Media: tmdb.MediaMovie, OriginalLanguage: String("zh")},
	{Slug: "superhero", Title: "Superheroes", Media: tmdb.MediaMovie, Keywords: String("9715")},
	{Slug: "time-travel", Title: "Time travel", Media: tmdb.MediaMovie, Keywords: String("4379")},
	{Slug: "zombie", Title: "Zombies", Media: tmdb.MediaMovie, GenreID: Int(27), Keywords: String("12377")},
	{Slug: "christmas", Title: "Christmas", Media: tmdb.MediaMovie, Keywords: String("207317")},
}

// Themes returns the built-in theme presets in display order.
func Themes() []ThemePreset {
	out := make([]ThemePreset, len(themePresets))
	copy(out, themePresets)
	return out
}

// FindTheme looks a preset up by slug, case-insensitively.
func FindTheme(slug string) (ThemePreset, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, t := range themePresets {
		if t.Slug == slug {
			return t, true
		}
	}
	return ThemePreset{}, false
}

// Filter returns the listing filter for the preset. An empty region falls
// back to DefaultThemeRegion.
func (t ThemePreset) Filter(region string) Filter {
	if strings.TrimSpace(region) == "" {
		region = DefaultThemeRegion
	}
	f := Filter{
		Media:            t.Media,
		GenreID:          t.GenreID,
		Keywords:         t.Keywords,
		OriginalLanguage: t.OriginalLanguage,
		Region:           region,
	}
	return f.Clone()
}

// Theme browses /discover for a theme filter. Only the theme fields are
// sent; sort, year and score are left to the server.
func Theme(api Lister) Source {
	return func(ctx context.Context, f Filter, page int) (tmdb.Page, error) {
		themed := Filter{
			Media:            f.Media,
			GenreID:          f.GenreID,
			Keywords:         f.Keywords,
			OriginalLanguage: f.OriginalLanguage,
			Language:         f.Language,
			Region:           f.Region,
		}
		if strings.TrimSpace(themed.Region) == "" {
			themed.Region = DefaultThemeRegion
		}
		return api.Discover(ctx, themed.Media, themed.Params(page))
	}
}
