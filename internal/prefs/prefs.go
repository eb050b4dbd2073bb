// Package prefs handles marquee user preferences persistence.
// Preferences are stored in ~/.config/marquee/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/marquee/internal/tmdb"
)

// Prefs holds user preferences for marquee.
type Prefs struct {
	Theme     string `toml:"theme"`
	MediaType string `toml:"media_type"`
	SortField string `toml:"sort_field"`
	SortOrder string `toml:"sort_order"`
}

const (
	defaultPrefsPath = "~/.config/marquee/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultMediaType = string(tmdb.MediaMovie)
	defaultSortField = "popularity"
	defaultSortOrder = "desc"
)

// Defaults returns the preferences used when nothing is saved.
func Defaults() Prefs {
	return Prefs{
		Theme:     defaultTheme,
		MediaType: defaultMediaType,
		SortField: defaultSortField,
		SortOrder: defaultSortOrder,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Media returns the saved media type, or movie when the value is unknown.
func (p Prefs) Media() tmdb.MediaType {
	m, err := tmdb.ParseMediaType(p.MediaType)
	if err != nil {
		return tmdb.MediaMovie
	}
	return m
}

// Load reads preferences from the given path, falling back to defaults if
// missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults(), nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return Defaults(), nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Defaults(), nil
	}

	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Defaults(), nil
	}
	return p.withDefaults(), nil
}

func (p Prefs) withDefaults() Prefs {
	d := Defaults()
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = d.Theme
	}
	if _, err := tmdb.ParseMediaType(p.MediaType); err != nil {
		p.MediaType = d.MediaType
	}
	if strings.TrimSpace(p.SortField) == "" {
		p.SortField = d.SortField
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		p.SortOrder = d.SortOrder
	}
	return p
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
