package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/five82/marquee/internal/session"
)

// Client talks to a TMDB-compatible metadata API.
type Client struct {
	baseURL   *url.URL
	imageBase string
	http      *http.Client
	userAgent string
	defaults  Defaults
	session   session.Source
	logger    *slog.Logger
}

const (
	DefaultBaseURL   = "https://api.themoviedb.org/3"
	DefaultImageBase = "https://image.tmdb.org/t/p"
	DefaultLanguage  = "zh-TW"
	defaultUserAgent = "marquee/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 4 << 10
)

// Options configure NewClient. Zero values fall back to the TMDB defaults.
type Options struct {
	BaseURL    string
	ImageBase  string
	APIKey     string
	Language   string
	Session    session.Source
	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger
}

// RequestOptions carry per-call query params and an optional JSON body.
type RequestOptions struct {
	Params  Params
	Body    any
	Headers map[string]string
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = DefaultLanguage
	}
	imageBase := strings.TrimRight(strings.TrimSpace(opts.ImageBase), "/")
	if imageBase == "" {
		imageBase = DefaultImageBase
	}
	src := opts.Session
	if src == nil {
		src = session.Static{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   base,
		imageBase: imageBase,
		http:      httpClient,
		userAgent: userAgent,
		defaults:  Defaults{APIKey: strings.TrimSpace(opts.APIKey), Language: language},
		session:   src,
		logger:    logger,
	}, nil
}

// Session returns the session the client currently attaches to requests.
func (c *Client) Session() session.Session {
	if c == nil || c.session == nil {
		return session.Session{}
	}
	return c.session.Current()
}

// Fetch issues a request and decodes the response into a new T.
func Fetch[T any](ctx context.Context, c *Client, method, path string, opts RequestOptions) (T, error) {
	var out T
	if err := c.Do(ctx, method, path, opts, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Do performs a single HTTP call and decodes a JSON response into dest.
// An empty body leaves dest untouched. Errors are *NetworkError,
// *HTTPStatusError, *DecodeError or *ValidationError.
func (c *Client) Do(ctx context.Context, method, path string, opts RequestOptions, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return &ValidationError{Field: "method", Reason: fmt.Sprintf("unsupported method %q", method)}
	}

	var body io.Reader
	if opts.Body != nil {
		if err := validateBody(opts.Body); err != nil {
			return err
		}
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return &ValidationError{Field: "body", Reason: err.Error()}
		}
		body = bytes.NewReader(payload)
	}

	reqURL, err := Compose(c.baseURL, path, opts.Params, c.session.Current(), c.defaults)
	if err != nil {
		return err
	}
	// Never log or report the query string: it carries the api key.
	logPath := reqURL.Path

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return &ValidationError{Field: "request", Reason: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("tmdb request failed", "method", method, "path", logPath, "error", err)
		return &NetworkError{Method: method, Path: logPath, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("tmdb request",
		"method", method,
		"path", logPath,
		"status", resp.StatusCode,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPStatusError{
			Method:  method,
			Path:    logPath,
			Status:  resp.StatusCode,
			Message: readStatusMessage(resp.Body),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, Path: logPath, Err: fmt.Errorf("read body: %w", err)}
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &DecodeError{Path: logPath, Err: err}
	}
	return nil
}

// ImageURL returns the absolute image URL for a poster/backdrop path.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return c.imageBase + "/" + size + "/" + strings.TrimPrefix(path, "/")
}

func validateBody(body any) error {
	v := reflect.ValueOf(body)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return &ValidationError{Field: "body", Reason: "nil pointer"}
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct, reflect.Map:
		return nil
	default:
		return &ValidationError{Field: "body", Reason: fmt.Sprintf("must be an object, got %s", v.Kind())}
	}
}

// readStatusMessage extracts status_message from a TMDB error payload.
func readStatusMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.StatusMessage
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
