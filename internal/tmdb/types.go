package tmdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MediaType tags a catalog item as a movie or a tv series.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// Valid reports whether m is a supported media type.
func (m MediaType) Valid() bool {
	return m == MediaMovie || m == MediaTV
}

// ParseMediaType accepts "movie"/"movies" and "tv"/"series".
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return MediaMovie, nil
	case "tv", "series":
		return MediaTV, nil
	default:
		return "", &ValidationError{Field: "media type", Reason: fmt.Sprintf("%q is not movie or tv", s)}
	}
}

// Item is one catalog entry from a listing endpoint. ID is the only field used
// for identity.
type Item struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title,omitempty"`
	Name             string    `json:"name,omitempty"`
	OriginalTitle    string    `json:"original_title,omitempty"`
	OriginalName     string    `json:"original_name,omitempty"`
	Overview         string    `json:"overview"`
	PosterPath       string    `json:"poster_path"`
	BackdropPath     string    `json:"backdrop_path"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
	GenreIDs         []int     `json:"genre_ids"`
	OriginalLanguage string    `json:"original_language"`
	Popularity       float64   `json:"popularity"`
	ReleaseDate      string    `json:"release_date,omitempty"`
	FirstAirDate     string    `json:"first_air_date,omitempty"`
	MediaType        MediaType `json:"media_type,omitempty"`
	Adult            bool      `json:"adult"`
}

// DisplayTitle returns the movie title or series name.
func (i Item) DisplayTitle() string {
	if t := strings.TrimSpace(i.Title); t != "" {
		return t
	}
	if n := strings.TrimSpace(i.Name); n != "" {
		return n
	}
	if t := strings.TrimSpace(i.OriginalTitle); t != "" {
		return t
	}
	return strings.TrimSpace(i.OriginalName)
}

// Year returns the four-digit release or first-air year, or "".
func (i Item) Year() string {
	date := i.ReleaseDate
	if date == "" {
		date = i.FirstAirDate
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// Page mirrors the paginated listing envelope.
type Page struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// withMediaType tags untagged results. Listing endpoints scoped to one media
// type omit media_type.
func (p Page) withMediaType(m MediaType) Page {
	for i := range p.Results {
		if p.Results[i].MediaType == "" {
			p.Results[i].MediaType = m
		}
	}
	return p
}

// Rated is either false or {"value": n} on the wire.
type Rated struct {
	Value float64
	Set   bool
}

// UnmarshalJSON accepts both shapes.
func (r *Rated) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")), bytes.Equal(trimmed, []byte("false")):
		*r = Rated{}
		return nil
	case bytes.Equal(trimmed, []byte("true")):
		*r = Rated{Set: true}
		return nil
	}
	var obj struct {
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("rated: %w", err)
	}
	*r = Rated{Value: obj.Value, Set: true}
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (r Rated) MarshalJSON() ([]byte, error) {
	if !r.Set {
		return []byte("false"), nil
	}
	return json.Marshal(struct {
		Value float64 `json:"value"`
	}{r.Value})
}

// AccountStates is the per-item personalization record.
type AccountStates struct {
	ID        int64 `json:"id"`
	Favorite  bool  `json:"favorite"`
	Watchlist bool  `json:"watchlist"`
	Rated     Rated `json:"rated"`
}

// FavoriteRequest is the favorite write body.
type FavoriteRequest struct {
	MediaType MediaType `json:"media_type"`
	MediaID   int64     `json:"media_id"`
	Favorite  bool      `json:"favorite"`
}

// WatchlistRequest is the watchlist write body.
type WatchlistRequest struct {
	MediaType MediaType `json:"media_type"`
	MediaID   int64     `json:"media_id"`
	Watchlist bool      `json:"watchlist"`
}

// Ack is the generic write acknowledgment.
type Ack struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

// Genre is one entry of a genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList mirrors /genre/{kind}/list.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// Account mirrors /account.
type Account struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	ISO6391      string `json:"iso_639_1"`
	ISO31661     string `json:"iso_3166_1"`
	IncludeAdult bool   `json:"include_adult"`
}
