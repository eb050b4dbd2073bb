package detail

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/tmdb"
)

// DefaultRegion is used for watch providers when none is configured.
const DefaultRegion = "TW"

// Section names used in Bundle.Missing.
const (
	SectionCredits         = "credits"
	SectionVideos          = "videos"
	SectionRecommendations = "recommendations"
	SectionReviews         = "reviews"
	SectionProviders       = "providers"
)

// API is the subset of the metadata client Load needs.
type API interface {
	Details(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.Details, error)
	Credits(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.Credits, error)
	Videos(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.VideoList, error)
	Recommendations(ctx context.Context, media tmdb.MediaType, id int64, page int) (tmdb.Page, error)
	Reviews(ctx context.Context, media tmdb.MediaType, id int64, page int) (tmdb.ReviewPage, error)
	WatchProviders(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.WatchProviders, error)
}

// Options tunes Load.
type Options struct {
	// Region selects the watch-provider region. Empty means DefaultRegion.
	Region string
	Logger *slog.Logger
}

// Bundle is one title's detail data.
type Bundle struct {
	Media    tmdb.MediaType
	ID       int64
	Details  tmdb.Details
	Cast     []tmdb.CastMember
	Director string
	// Trailer is nil when the title has no official YouTube trailer.
	Trailer         *tmdb.Video
	Region          string
	Providers       tmdb.RegionProviders
	HasProviders    bool
	Reviews         []tmdb.Review
	Recommendations []tmdb.Item
	Missing         []string
}

// Key identifies the title a bundle belongs to.
type Key struct {
	Media tmdb.MediaType
	ID    int64
}

// KeyOf returns the key for item.
func KeyOf(item tmdb.Item) Key {
	return Key{Media: item.MediaType, ID: item.ID}
}

// Key returns the bundle's title key.
func (b Bundle) Key() Key {
	return Key{Media: b.Media, ID: b.ID}
}

// Load fetches a title's detail data. Only a failure of the title record
// fails the load, and it cancels the sections still running.
func Load(ctx context.Context, api API, media tmdb.MediaType, id int64, opts Options) (Bundle, error) {
	if !media.Valid() {
		return Bundle{}, &tmdb.ValidationError{Field: "media type", Reason: "item has no media type"}
	}
	if id <= 0 {
		return Bundle{}, &tmdb.ValidationError{Field: "item id", Reason: "item id required"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	region := strings.ToUpper(strings.TrimSpace(opts.Region))
	if region == "" {
		region = DefaultRegion
	}

	b := Bundle{Media: media, ID: id, Region: region}
	var mu sync.Mutex
	missing := func(section string, err error) {
		logger.Warn("detail section failed", "section", section, "media", media, "id", id, "error", err)
		mu.Lock()
		b.Missing = append(b.Missing, section)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := api.Details(gctx, media, id)
		if err != nil {
			return err
		}
		b.Details = d
		return nil
	})
	g.Go(func() error {
		credits, err := api.Credits(gctx, media, id)
		if err != nil {
			missing(SectionCredits, err)
			return nil
		}
		cast := append([]tmdb.CastMember(nil), credits.Cast...)
		sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
		b.Cast = cast
		b.Director = credits.Director()
		return nil
	})
	g.Go(func() error {
		videos, err := api.Videos(gctx, media, id)
		if err != nil {
			missing(SectionVideos, err)
			return nil
		}
		if v, ok := videos.Trailer(); ok {
			b.Trailer = &v
		}
		return nil
	})
	g.Go(func() error {
		page, err := api.Recommendations(gctx, media, id, 1)
		if err != nil {
			missing(SectionRecommendations, err)
			return nil
		}
		b.Recommendations = page.Results
		return nil
	})
	g.Go(func() error {
		page, err := api.Reviews(gctx, media, id, 1)
		if err != nil {
			missing(SectionReviews, err)
			return nil
		}
		b.Reviews = page.Results
		return nil
	})
	g.Go(func() error {
		providers, err := api.WatchProviders(gctx, media, id)
		if err != nil {
			missing(SectionProviders, err)
			return nil
		}
		b.Providers, b.HasProviders = providers.Region(region)
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("detail load failed", "media", media, "id", id, "error", err)
		return Bundle{}, err
	}
	sort.Strings(b.Missing)
	return b, nil
}
