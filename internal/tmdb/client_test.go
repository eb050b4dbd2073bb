package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/five82/marquee/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler, sess session.Source) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewClient(Options{
		BaseURL:  server.URL + "/3",
		APIKey:   "test-key",
		Language: "zh-TW",
		Session:  sess,
	})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("base = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/3?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "/3" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotDiscover url.Values
	var gotUserAgent string
	var gotFavorite FavoriteRequest

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/3/discover/tv":
			gotDiscover = r.URL.Query()
			_ = json.NewEncoder(w).Encode(Page{Page: 1, Results: []Item{{ID: 1, Name: "Show"}}, TotalResults: 5})
		case "/3/tv/9/account_states":
			_, _ = w.Write([]byte(`{"id":9,"favorite":true,"rated":{"value":8.5},"watchlist":false}`))
		case "/3/account/77/favorite":
			if r.Method != http.MethodPost {
				http.Error(w, "method", http.StatusMethodNotAllowed)
				return
			}
			if r.Header.Get("Content-Type") != "application/json" {
				http.Error(w, "content type", http.StatusUnsupportedMediaType)
				return
			}
			_ = json.NewDecoder(r.Body).Decode(&gotFavorite)
			_, _ = w.Write([]byte(`{"status_code":1,"status_message":"Success.","success":true}`))
		case "/3/genre/movie/list":
			_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	c := newTestClient(t, handler, session.Static{ID: "sess", AccountID: 77})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	page, err := c.Discover(ctx, MediaTV, Params{"with_genres": nil, "sort_by": "popularity.desc", "page": 1})
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].MediaType != MediaTV || page.TotalResults != 5 {
		t.Fatalf("Discover page = %#v, want 1 tv item total 5", page)
	}
	if gotDiscover.Get("api_key") != "test-key" ||
		gotDiscover.Get("session_id") != "sess" ||
		gotDiscover.Get("language") != "zh-TW" ||
		gotDiscover.Get("sort_by") != "popularity.desc" ||
		gotDiscover.Get("page") != "1" ||
		gotDiscover.Has("with_genres") {
		t.Fatalf("Discover query = %v, want defaults and no with_genres", gotDiscover)
	}

	states, err := c.AccountStates(ctx, MediaTV, 9)
	if err != nil {
		t.Fatalf("AccountStates returned error: %v", err)
	}
	if !states.Favorite || states.Watchlist || !states.Rated.Set || states.Rated.Value != 8.5 {
		t.Fatalf("AccountStates = %#v, want favorite rated 8.5", states)
	}

	ack, err := c.MarkFavorite(ctx, 77, FavoriteRequest{MediaType: MediaTV, MediaID: 9, Favorite: false})
	if err != nil {
		t.Fatalf("MarkFavorite returned error: %v", err)
	}
	if !ack.Success || gotFavorite.MediaID != 9 || gotFavorite.MediaType != MediaTV || gotFavorite.Favorite {
		t.Fatalf("MarkFavorite ack=%#v body=%#v", ack, gotFavorite)
	}

	genres, err := c.Genres(ctx, MediaMovie)
	if err != nil {
		t.Fatalf("Genres returned error: %v", err)
	}
	if len(genres) != 1 || genres[0].Name != "Action" {
		t.Fatalf("Genres = %#v, want Action", genres)
	}

	if !strings.HasPrefix(gotUserAgent, "marquee/") {
		t.Fatalf("User-Agent = %q, want marquee/*", gotUserAgent)
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/bad-json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/3/empty":
			w.WriteHeader(http.StatusOK)
		case "/3/denied":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status_code":3,"status_message":"Authentication failed"}`))
		case "/3/boom":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})
	c := newTestClient(t, handler, nil)
	ctx := context.Background()

	var out map[string]any
	err := c.Do(ctx, http.MethodGet, "/bad-json", RequestOptions{}, &out)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("bad json error = %v, want *DecodeError", err)
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		t.Fatalf("decode error should not be an HTTPStatusError")
	}

	empty, err := Fetch[Ack](ctx, c, http.MethodGet, "/empty", RequestOptions{})
	if err != nil {
		t.Fatalf("empty body returned error: %v", err)
	}
	if empty != (Ack{}) {
		t.Fatalf("empty body decoded to %#v, want zero value", empty)
	}

	err = c.Do(ctx, http.MethodGet, "/denied", RequestOptions{}, nil)
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusUnauthorized {
		t.Fatalf("denied error = %v, want status 401", err)
	}
	if statusErr.Message != "Authentication failed" {
		t.Fatalf("Message = %q, want status_message", statusErr.Message)
	}

	err = c.Do(ctx, http.MethodGet, "/boom", RequestOptions{}, nil)
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("boom error = %v, want status 500 error", err)
	}
	if strings.Contains(err.Error(), "test-key") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	c, err := NewClient(Options{BaseURL: base})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.Do(context.Background(), http.MethodGet, "/movie/popular", RequestOptions{}, nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
}

func TestClient_ValidatesMethodAndBody(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.Copy(io.Discard, r.Body)
	})
	c := newTestClient(t, handler, nil)
	ctx := context.Background()

	var vErr *ValidationError
	if err := c.Do(ctx, http.MethodPatch, "/x", RequestOptions{}, nil); !errors.As(err, &vErr) {
		t.Fatalf("PATCH error = %v, want *ValidationError", err)
	}
	if err := c.Do(ctx, http.MethodPost, "/x", RequestOptions{Body: "text"}, nil); !errors.As(err, &vErr) {
		t.Fatalf("string body error = %v, want *ValidationError", err)
	}
	if err := c.Do(ctx, http.MethodPost, "/x", RequestOptions{Body: map[string]int{"a": 1}}, nil); err != nil {
		t.Fatalf("map body returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("server calls = %d, want 1 (invalid requests must not reach the wire)", calls)
	}
}

func TestClient_RejectsBadMediaBeforeIO(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Discover(context.Background(), MediaType("anime"), nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if _, err := c.FavoriteList(context.Background(), 0, MediaMovie, 1); !errors.As(err, &vErr) {
		t.Fatalf("FavoriteList error = %v, want *ValidationError", err)
	}
}

func TestClient_ImageURL(t *testing.T) {
	c, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.ImageURL("/abc.jpg", "w500"); got != DefaultImageBase+"/w500/abc.jpg" {
		t.Fatalf("ImageURL = %q", got)
	}
	if c.ImageURL("", "w500") != "" {
		t.Fatalf("ImageURL should be empty for empty path")
	}
}
