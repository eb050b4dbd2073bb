package detail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/five82/marquee/internal/tmdb"
)

type fakeAPI struct {
	failDetails bool
	fail        map[string]bool
	// waitCredits makes Credits block until its context ends.
	waitCredits bool
	region      string
}

var errUnavailable = &tmdb.HTTPStatusError{Method: "GET", Path: "/movie/42", Status: 503, Message: "unavailable"}

func (f *fakeAPI) Details(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.Details, error) {
	if f.failDetails {
		return tmdb.Details{}, errUnavailable
	}
	return tmdb.Details{ID: id, Title: "Arrival", Runtime: 116}, nil
}

func (f *fakeAPI) Credits(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.Credits, error) {
	if f.waitCredits {
		<-ctx.Done()
		return tmdb.Credits{}, ctx.Err()
	}
	if f.fail[SectionCredits] {
		return tmdb.Credits{}, errUnavailable
	}
	return tmdb.Credits{
		Cast: []tmdb.CastMember{{Name: "Jeremy Renner", Order: 1}, {Name: "Amy Adams", Order: 0}},
		Crew: []tmdb.CrewMember{{Name: "Denis Villeneuve", Job: "Director"}},
	}, nil
}

func (f *fakeAPI) Videos(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.VideoList, error) {
	if f.fail[SectionVideos] {
		return tmdb.VideoList{}, errUnavailable
	}
	return tmdb.VideoList{Results: []tmdb.Video{{Key: "abc", Site: "YouTube", Type: "Trailer", Official: true}}}, nil
}

func (f *fakeAPI) Recommendations(ctx context.Context, media tmdb.MediaType, id int64, page int) (tmdb.Page, error) {
	if f.fail[SectionRecommendations] {
		return tmdb.Page{}, errUnavailable
	}
	return tmdb.Page{Page: page, Results: []tmdb.Item{{ID: 7, Title: "Dune", MediaType: media}}}, nil
}

func (f *fakeAPI) Reviews(ctx context.Context, media tmdb.MediaType, id int64, page int) (tmdb.ReviewPage, error) {
	if f.fail[SectionReviews] {
		return tmdb.ReviewPage{}, errUnavailable
	}
	return tmdb.ReviewPage{Page: page, Results: []tmdb.Review{{ID: "r1", Author: "ana", Content: "Great."}}}, nil
}

func (f *fakeAPI) WatchProviders(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.WatchProviders, error) {
	if f.fail[SectionProviders] {
		return tmdb.WatchProviders{}, errUnavailable
	}
	return tmdb.WatchProviders{Results: map[string]tmdb.RegionProviders{
		"TW": {Flatrate: []tmdb.Provider{{Name: "Netflix"}}},
		"US": {Rent: []tmdb.Provider{{Name: "Apple TV"}}},
	}}, nil
}

func quietOptions(region string) Options {
	return Options{Region: region, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestLoadAssemblesEverySection(t *testing.T) {
	b, err := Load(context.Background(), &fakeAPI{}, tmdb.MediaMovie, 42, quietOptions(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if b.Key() != (Key{Media: tmdb.MediaMovie, ID: 42}) || b.Details.Title != "Arrival" {
		t.Fatalf("bundle = %+v", b)
	}
	if len(b.Cast) != 2 || b.Cast[0].Name != "Amy Adams" {
		t.Fatalf("cast not ordered by billing: %+v", b.Cast)
	}
	if b.Director != "Denis Villeneuve" {
		t.Fatalf("director = %q", b.Director)
	}
	if b.Trailer == nil || b.Trailer.URL() != "https://www.youtube.com/watch?v=abc" {
		t.Fatalf("trailer = %+v", b.Trailer)
	}
	if b.Region != DefaultRegion || !b.HasProviders || b.Providers.Flatrate[0].Name != "Netflix" {
		t.Fatalf("providers = %s %+v %v", b.Region, b.Providers, b.HasProviders)
	}
	if len(b.Reviews) != 1 || len(b.Recommendations) != 1 || len(b.Missing) != 0 {
		t.Fatalf("bundle = %+v", b)
	}
}

func TestLoadUsesConfiguredRegion(t *testing.T) {
	b, err := Load(context.Background(), &fakeAPI{}, tmdb.MediaMovie, 42, quietOptions("us"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if b.Region != "US" || !b.HasProviders || len(b.Providers.Rent) != 1 {
		t.Fatalf("providers = %s %+v", b.Region, b.Providers)
	}

	b, err = Load(context.Background(), &fakeAPI{}, tmdb.MediaMovie, 42, quietOptions("JP"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if b.HasProviders {
		t.Fatalf("JP has no providers, got %+v", b.Providers)
	}
}

func TestLoadKeepsGoingWhenSectionsFail(t *testing.T) {
	api := &fakeAPI{fail: map[string]bool{SectionReviews: true, SectionVideos: true}}
	b, err := Load(context.Background(), api, tmdb.MediaTV, 9, quietOptions(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := []string{SectionReviews, SectionVideos}; !reflect.DeepEqual(b.Missing, want) {
		t.Fatalf("missing = %v, want %v", b.Missing, want)
	}
	if b.Trailer != nil || len(b.Reviews) != 0 {
		t.Fatalf("failed sections should stay empty: %+v", b)
	}
	if b.Details.Title == "" || len(b.Cast) == 0 || len(b.Recommendations) == 0 {
		t.Fatalf("healthy sections should load: %+v", b)
	}
}

func TestLoadFailsAndCancelsWhenDetailsFail(t *testing.T) {
	api := &fakeAPI{failDetails: true, waitCredits: true}
	done := make(chan error, 1)
	go func() {
		_, err := Load(context.Background(), api, tmdb.MediaMovie, 42, quietOptions(""))
		done <- err
	}()
	select {
	case err := <-done:
		var statusErr *tmdb.HTTPStatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("error = %v, want *tmdb.HTTPStatusError", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Load did not cancel the remaining sections")
	}
}

func TestLoadValidatesBeforeIO(t *testing.T) {
	var vErr *tmdb.ValidationError
	if _, err := Load(context.Background(), &fakeAPI{}, tmdb.MediaType(""), 1, quietOptions("")); !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *tmdb.ValidationError", err)
	}
	if _, err := Load(context.Background(), &fakeAPI{}, tmdb.MediaMovie, 0, quietOptions("")); !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *tmdb.ValidationError", err)
	}
}
