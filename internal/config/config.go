package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything marquee reads from config.toml and the
// environment.
type Config struct {
	APIURL          string
	APIKey          string
	Language        string
	Region          string
	ImageBaseURL    string
	SessionFile     string
	LogFile         string
	PageConcurrency int
}

const (
	defaultConfigPath      = "~/.config/marquee/config.toml"
	defaultAPIURL          = "https://api.themoviedb.org/3"
	defaultImageBaseURL    = "https://image.tmdb.org/t/p"
	defaultLanguage        = "zh-TW"
	defaultSessionFile     = "~/.config/marquee/session.toml"
	defaultLogFile         = "~/.local/state/marquee/marquee.log"
	defaultPageConcurrency = 6
	maxPageConcurrency     = 32

	// EnvAPIKey and EnvAPIURL override the file values when set.
	EnvAPIKey = "TMDB_API_KEY"
	EnvAPIURL = "TMDB_API_URL"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("api key not configured (set api_key in config.toml or " + EnvAPIKey + ")")

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config, falling back to defaults when missing.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIURL          string `toml:"api_url"`
		APIKey          string `toml:"api_key"`
		Language        string `toml:"language"`
		Region          string `toml:"region"`
		ImageBaseURL    string `toml:"image_base_url"`
		SessionFile     string `toml:"session_file"`
		LogFile         string `toml:"log_file"`
		PageConcurrency int    `toml:"page_concurrency"`
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := Config{
		APIURL:          orDefault(raw.APIURL, defaultAPIURL),
		APIKey:          strings.TrimSpace(raw.APIKey),
		Language:        orDefault(raw.Language, defaultLanguage),
		Region:          strings.TrimSpace(raw.Region),
		ImageBaseURL:    orDefault(raw.ImageBaseURL, defaultImageBaseURL),
		SessionFile:     mustExpand(orDefault(raw.SessionFile, defaultSessionFile)),
		LogFile:         mustExpand(orDefault(raw.LogFile, defaultLogFile)),
		PageConcurrency: raw.PageConcurrency,
	}
	if cfg.PageConcurrency <= 0 {
		cfg.PageConcurrency = defaultPageConcurrency
	}
	cfg.PageConcurrency = min(cfg.PageConcurrency, maxPageConcurrency)

	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}

	return cfg, nil
}

// Validate checks the fields needed to talk to the API. The URL itself is
// checked when the client is built.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// LogDir returns the directory that holds the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
