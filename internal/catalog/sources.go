package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/tmdb"
)

// Lister is the listing subset of tmdb.API.
type Lister interface {
	Discover(ctx context.Context, media tmdb.MediaType, params tmdb.Params) (tmdb.Page, error)
	Search(ctx context.Context, media tmdb.MediaType, query string, page int) (tmdb.Page, error)
	Trending(ctx context.Context, media tmdb.MediaType, window string, page int) (tmdb.Page, error)
	Popular(ctx context.Context, media tmdb.MediaType, page int) (tmdb.Page, error)
	FavoriteList(ctx context.Context, accountID int64, media tmdb.MediaType, page int) (tmdb.Page, error)
}

// Discover browses /discover with every filter field mapped to params.
func Discover(api Lister) Source {
	return func(ctx context.Context, f Filter, page int) (tmdb.Page, error) {
		return api.Discover(ctx, f.Media, f.Params(page))
	}
}

// Search runs a free-text search. An empty query yields an empty page
// without touching the network.
func Search(api Lister) Source {
	return func(ctx context.Context, f Filter, page int) (tmdb.Page, error) {
		if strings.TrimSpace(f.Query) == "" {
			return tmdb.Page{Page: page}, nil
		}
		return api.Search(ctx, f.Media, f.Query, page)
	}
}

// Favorites lists the signed-in account's favorites. It fails with
// session.ErrNoSession when nobody is signed in.
func Favorites(api Lister, sess session.Source) Source {
	return func(ctx context.Context, f Filter, page int) (tmdb.Page, error) {
		current := sess.Current()
		if !current.Active() || current.AccountID <= 0 {
			return tmdb.Page{}, session.ErrNoSession
		}
		return api.FavoriteList(ctx, current.AccountID, f.Media, page)
	}
}

// Trending lists the weekly trending titles.
func Trending(api Lister) Source {
	return func(ctx context.Context, f Filter, page int) (tmdb.Page, error) {
		return api.Trending(ctx, f.Media, "week", page)
	}
}

// Hot merges the first page of popular movies and series and keeps the n
// most popular, tagged with their media type.
func Hot(ctx context.Context, api Lister, n int) ([]tmdb.Item, error) {
	movies, err := api.Popular(ctx, tmdb.MediaMovie, 1)
	if err != nil {
		return nil, err
	}
	shows, err := api.Popular(ctx, tmdb.MediaTV, 1)
	if err != nil {
		return nil, err
	}
	merged := append(topN(movies.Results, n), topN(shows.Results, n)...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Popularity > merged[j].Popularity
	})
	return topN(merged, n), nil
}

func topN(items []tmdb.Item, n int) []tmdb.Item {
	if n <= 0 || len(items) <= n {
		return cloneItems(items)
	}
	return cloneItems(items[:n])
}
