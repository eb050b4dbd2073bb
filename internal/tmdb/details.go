package tmdb

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Details mirrors /{movie|tv}/{id}. Movies and series share one struct; the
// fields the other kind lacks stay zero.
type Details struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title,omitempty"`
	Name             string   `json:"name,omitempty"`
	OriginalTitle    string   `json:"original_title,omitempty"`
	OriginalName     string   `json:"original_name,omitempty"`
	Tagline          string   `json:"tagline"`
	Overview         string   `json:"overview"`
	Status           string   `json:"status"`
	Homepage         string   `json:"homepage"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	Genres           []Genre  `json:"genres"`
	OriginalLanguage string   `json:"original_language"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	FirstAirDate     string   `json:"first_air_date,omitempty"`
	Runtime          int      `json:"runtime,omitempty"`
	EpisodeRunTime   []int    `json:"episode_run_time,omitempty"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Seasons          []Season `json:"seasons,omitempty"`
}

// Item returns the listing view of d, tagged with media.
func (d Details) Item(media MediaType) Item {
	ids := make([]int, len(d.Genres))
	for i, g := range d.Genres {
		ids[i] = g.ID
	}
	return Item{
		ID:               d.ID,
		Title:            d.Title,
		Name:             d.Name,
		OriginalTitle:    d.OriginalTitle,
		OriginalName:     d.OriginalName,
		Overview:         d.Overview,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		VoteAverage:      d.VoteAverage,
		VoteCount:        d.VoteCount,
		GenreIDs:         ids,
		OriginalLanguage: d.OriginalLanguage,
		ReleaseDate:      d.ReleaseDate,
		FirstAirDate:     d.FirstAirDate,
		MediaType:        media,
	}
}

// RuntimeMinutes is the movie runtime or the first episode run time.
func (d Details) RuntimeMinutes() int {
	if d.Runtime > 0 {
		return d.Runtime
	}
	for _, m := range d.EpisodeRunTime {
		if m > 0 {
			return m
		}
	}
	return 0
}

// Season is one entry of a series' season list.
type Season struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date"`
}

// CastMember is one billed performer.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	Order       int    `json:"order"`
	ProfilePath string `json:"profile_path"`
}

// CrewMember is one credited crew role.
type CrewMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits mirrors /{kind}/{id}/credits.
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Director returns the first crew member credited as Director, or "".
func (c Credits) Director() string {
	for _, member := range c.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

// Video is one clip attached to a title.
type Video struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// URL returns a watch link for YouTube clips, or "".
func (v Video) URL() string {
	if v.Site != "YouTube" || v.Key == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + v.Key
}

// VideoList mirrors /{kind}/{id}/videos.
type VideoList struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

// Trailer returns the first official YouTube trailer.
func (l VideoList) Trailer() (Video, bool) {
	for _, v := range l.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Official {
			return v, true
		}
	}
	return Video{}, false
}

// ReviewAuthor describes who wrote a review. Rating is nil when the author
// did not score the title.
type ReviewAuthor struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath string   `json:"avatar_path"`
	Rating     *float64 `json:"rating"`
}

// Review is one user review.
type Review struct {
	ID            string       `json:"id"`
	Author        string       `json:"author"`
	AuthorDetails ReviewAuthor `json:"author_details"`
	Content       string       `json:"content"`
	CreatedAt     string       `json:"created_at"`
	URL           string       `json:"url"`
}

// ReviewPage mirrors /{kind}/{id}/reviews.
type ReviewPage struct {
	Page         int      `json:"page"`
	Results      []Review `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Provider is one streaming or retail service.
type Provider struct {
	ID              int64  `json:"provider_id"`
	Name            string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// RegionProviders lists where a title can be watched in one region.
type RegionProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate,omitempty"`
	Ads      []Provider `json:"ads,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Buy      []Provider `json:"buy,omitempty"`
}

// WatchProviders mirrors /{kind}/{id}/watch/providers, keyed by ISO 3166-1
// region code.
type WatchProviders struct {
	ID      int64                      `json:"id"`
	Results map[string]RegionProviders `json:"results"`
}

// Region returns the providers for one region code.
func (w WatchProviders) Region(code string) (RegionProviders, bool) {
	r, ok := w.Results[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Details returns the full record for one title.
func (c *Client) Details(ctx context.Context, media MediaType, id int64) (Details, error) {
	path, err := titlePath(media, id, "")
	if err != nil {
		return Details{}, err
	}
	d, err := Fetch[Details](ctx, c, http.MethodGet, path, RequestOptions{})
	if err != nil {
		return Details{}, err
	}
	if d.ID == 0 {
		d.ID = id
	}
	return d, nil
}

// Credits returns cast and crew.
func (c *Client) Credits(ctx context.Context, media MediaType, id int64) (Credits, error) {
	path, err := titlePath(media, id, "/credits")
	if err != nil {
		return Credits{}, err
	}
	return Fetch[Credits](ctx, c, http.MethodGet, path, RequestOptions{})
}

// Videos returns trailers, teasers and clips.
func (c *Client) Videos(ctx context.Context, media MediaType, id int64) (VideoList, error) {
	path, err := titlePath(media, id, "/videos")
	if err != nil {
		return VideoList{}, err
	}
	return Fetch[VideoList](ctx, c, http.MethodGet, path, RequestOptions{})
}

// Recommendations lists titles recommended from this one.
func (c *Client) Recommendations(ctx context.Context, media MediaType, id int64, page int) (Page, error) {
	path, err := titlePath(media, id, "/recommendations")
	if err != nil {
		return Page{}, err
	}
	res, err := Fetch[Page](ctx, c, http.MethodGet, path, RequestOptions{
		Params: Params{"page": pageParam(page)},
	})
	if err != nil {
		return Page{}, err
	}
	return res.withMediaType(media), nil
}

// Reviews lists user reviews.
func (c *Client) Reviews(ctx context.Context, media MediaType, id int64, page int) (ReviewPage, error) {
	path, err := titlePath(media, id, "/reviews")
	if err != nil {
		return ReviewPage{}, err
	}
	return Fetch[ReviewPage](ctx, c, http.MethodGet, path, RequestOptions{
		Params: Params{"page": pageParam(page)},
	})
}

// WatchProviders lists streaming, rental and purchase options per region.
func (c *Client) WatchProviders(ctx context.Context, media MediaType, id int64) (WatchProviders, error) {
	path, err := titlePath(media, id, "/watch/providers")
	if err != nil {
		return WatchProviders{}, err
	}
	return Fetch[WatchProviders](ctx, c, http.MethodGet, path, RequestOptions{})
}

func titlePath(media MediaType, id int64, suffix string) (string, error) {
	if err := requireMedia(media); err != nil {
		return "", err
	}
	if id <= 0 {
		return "", &ValidationError{Field: "item id", Reason: "item id required"}
	}
	return "/" + string(media) + "/" + strconv.FormatInt(id, 10) + suffix, nil
}
