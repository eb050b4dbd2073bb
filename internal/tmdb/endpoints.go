package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// API is the endpoint surface the catalog and overlay layers consume.
type API interface {
	Discover(ctx context.Context, media MediaType, params Params) (Page, error)
	Search(ctx context.Context, media MediaType, query string, page int) (Page, error)
	Trending(ctx context.Context, media MediaType, window string, page int) (Page, error)
	Popular(ctx context.Context, media MediaType, page int) (Page, error)
	FavoriteList(ctx context.Context, accountID int64, media MediaType, page int) (Page, error)
	Genres(ctx context.Context, media MediaType) ([]Genre, error)
	AccountStates(ctx context.Context, media MediaType, id int64) (AccountStates, error)
	MarkFavorite(ctx context.Context, accountID int64, req FavoriteRequest) (Ack, error)
	MarkWatchlist(ctx context.Context, accountID int64, req WatchlistRequest) (Ack, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Discover lists /discover/{movie|tv} with free-form filter params.
func (c *Client) Discover(ctx context.Context, media MediaType, params Params) (Page, error) {
	if err := requireMedia(media); err != nil {
		return Page{}, err
	}
	page, err := Fetch[Page](ctx, c, http.MethodGet, "/discover/"+string(media), RequestOptions{Params: params})
	if err != nil {
		return Page{}, err
	}
	return page.withMediaType(media), nil
}

// Search runs /search/{movie|tv}.
func (c *Client) Search(ctx context.Context, media MediaType, query string, page int) (Page, error) {
	if err := requireMedia(media); err != nil {
		return Page{}, err
	}
	if strings.TrimSpace(query) == "" {
		return Page{}, &ValidationError{Field: "query", Reason: "query is empty"}
	}
	res, err := Fetch[Page](ctx, c, http.MethodGet, "/search/"+string(media), RequestOptions{
		Params: Params{"query": query, "page": pageParam(page)},
	})
	if err != nil {
		return Page{}, err
	}
	return res.withMediaType(media), nil
}

// Trending lists /trending/{movie|tv}/{day|week}.
func (c *Client) Trending(ctx context.Context, media MediaType, window string, page int) (Page, error) {
	if err := requireMedia(media); err != nil {
		return Page{}, err
	}
	switch window {
	case "":
		window = "week"
	case "day", "week":
	default:
		return Page{}, &ValidationError{Field: "window", Reason: fmt.Sprintf("%q is not day or week", window)}
	}
	res, err := Fetch[Page](ctx, c, http.MethodGet, "/trending/"+string(media)+"/"+window, RequestOptions{
		Params: Params{"page": pageParam(page)},
	})
	if err != nil {
		return Page{}, err
	}
	return res.withMediaType(media), nil
}

// Popular lists /{movie|tv}/popular.
func (c *Client) Popular(ctx context.Context, media MediaType, page int) (Page, error) {
	if err := requireMedia(media); err != nil {
		return Page{}, err
	}
	res, err := Fetch[Page](ctx, c, http.MethodGet, "/"+string(media)+"/popular", RequestOptions{
		Params: Params{"page": pageParam(page)},
	})
	if err != nil {
		return Page{}, err
	}
	return res.withMediaType(media), nil
}

// FavoriteList lists the account's favorites (the playlist).
func (c *Client) FavoriteList(ctx context.Context, accountID int64, media MediaType, page int) (Page, error) {
	if err := requireMedia(media); err != nil {
		return Page{}, err
	}
	if accountID <= 0 {
		return Page{}, &ValidationError{Field: "account id", Reason: "account id required"}
	}
	segment := "movies"
	if media == MediaTV {
		segment = "tv"
	}
	path := "/account/" + strconv.FormatInt(accountID, 10) + "/favorite/" + segment
	res, err := Fetch[Page](ctx, c, http.MethodGet, path, RequestOptions{
		Params: Params{"page": pageParam(page)},
	})
	if err != nil {
		return Page{}, err
	}
	return res.withMediaType(media), nil
}

// Genres returns the genre list for a media type.
func (c *Client) Genres(ctx context.Context, media MediaType) ([]Genre, error) {
	if err := requireMedia(media); err != nil {
		return nil, err
	}
	list, err := Fetch[GenreList](ctx, c, http.MethodGet, "/genre/"+string(media)+"/list", RequestOptions{})
	if err != nil {
		return nil, err
	}
	return list.Genres, nil
}

// AccountStates returns favorite/watchlist/rated for one item.
func (c *Client) AccountStates(ctx context.Context, media MediaType, id int64) (AccountStates, error) {
	if err := requireMedia(media); err != nil {
		return AccountStates{}, err
	}
	if id <= 0 {
		return AccountStates{}, &ValidationError{Field: "item id", Reason: "item id required"}
	}
	path := "/" + string(media) + "/" + strconv.FormatInt(id, 10) + "/account_states"
	states, err := Fetch[AccountStates](ctx, c, http.MethodGet, path, RequestOptions{})
	if err != nil {
		return AccountStates{}, err
	}
	if states.ID == 0 {
		states.ID = id
	}
	return states, nil
}

// MarkFavorite writes the favorite flag for one item.
func (c *Client) MarkFavorite(ctx context.Context, accountID int64, req FavoriteRequest) (Ack, error) {
	if err := requireMedia(req.MediaType); err != nil {
		return Ack{}, err
	}
	if accountID <= 0 {
		return Ack{}, &ValidationError{Field: "account id", Reason: "account id required"}
	}
	path := "/account/" + strconv.FormatInt(accountID, 10) + "/favorite"
	return Fetch[Ack](ctx, c, http.MethodPost, path, RequestOptions{Body: req})
}

// MarkWatchlist writes the watchlist flag for one item.
func (c *Client) MarkWatchlist(ctx context.Context, accountID int64, req WatchlistRequest) (Ack, error) {
	if err := requireMedia(req.MediaType); err != nil {
		return Ack{}, err
	}
	if accountID <= 0 {
		return Ack{}, &ValidationError{Field: "account id", Reason: "account id required"}
	}
	path := "/account/" + strconv.FormatInt(accountID, 10) + "/watchlist"
	return Fetch[Ack](ctx, c, http.MethodPost, path, RequestOptions{Body: req})
}

// Account returns the account bound to the current session.
func (c *Client) Account(ctx context.Context) (Account, error) {
	return Fetch[Account](ctx, c, http.MethodGet, "/account", RequestOptions{})
}

// DeleteSession ends a session server-side (logout).
func (c *Client) DeleteSession(ctx context.Context, sessionID string) (Ack, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Ack{}, &ValidationError{Field: "session id", Reason: "session id required"}
	}
	return Fetch[Ack](ctx, c, http.MethodDelete, "/authentication/session", RequestOptions{
		Body: map[string]string{"session_id": sessionID},
	})
}

func requireMedia(m MediaType) error {
	if !m.Valid() {
		return &ValidationError{Field: "media type", Reason: fmt.Sprintf("%q is not movie or tv", m)}
	}
	return nil
}

// pageParam returns nil for non-positive pages so the server default applies.
func pageParam(page int) any {
	if page <= 0 {
		return nil
	}
	return page
}
