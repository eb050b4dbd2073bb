package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHolder_SetReportsChanges(t *testing.T) {
	var h Holder
	if h.Current().Active() {
		t.Fatalf("zero Holder should be anonymous")
	}
	if !h.Set(Session{ID: " abc ", AccountID: 7}) {
		t.Fatalf("Set returned false, want true on first change")
	}
	if got := h.Current(); got.ID != "abc" || got.AccountID != 7 {
		t.Fatalf("Current = %#v, want trimmed id abc account 7", got)
	}
	if h.Set(Session{ID: "abc", AccountID: 7}) {
		t.Fatalf("Set returned true for identical session")
	}
	if h.Version() != 1 {
		t.Fatalf("Version = %d, want 1", h.Version())
	}
	if !h.Clear() || h.Current().Active() {
		t.Fatalf("Clear should drop the session")
	}
	if h.Version() != 2 {
		t.Fatalf("Version = %d, want 2", h.Version())
	}
}

func TestLoadFile_MissingIsAnonymous(t *testing.T) {
	s, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if s.Active() {
		t.Fatalf("session = %#v, want anonymous", s)
	}
}

func TestLoadFile_ParsesAndTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("session_id = \"  s-1  \"\naccount_id = 42\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if s.ID != "s-1" || s.AccountID != 42 {
		t.Fatalf("session = %#v, want s-1/42", s)
	}
}

func TestLoadFile_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(path, []byte("session_id = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "parse session") {
		t.Fatalf("LoadFile error = %v, want parse session error", err)
	}
}

func TestRemoveFile_IgnoresMissing(t *testing.T) {
	if err := RemoveFile(filepath.Join(t.TempDir(), "gone.toml")); err != nil {
		t.Fatalf("RemoveFile returned error: %v", err)
	}
}
