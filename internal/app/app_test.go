package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/overlay"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
)

func TestLogoutClearsLocalState(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	sessionFile := filepath.Join(t.TempDir(), "session.toml")
	if err := os.WriteFile(sessionFile, []byte("session_id = \"abc\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	holder := &session.Holder{}
	holder.Set(session.Session{ID: "abc", AccountID: 4})
	client, err := tmdb.NewClient(tmdb.Options{BaseURL: server.URL + "/3", APIKey: "k", Session: holder})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ov := overlay.New(nopStates{}, nopStates{}, holder)
	_ = ov.Resolve(context.Background(), []tmdb.Item{{ID: 1, MediaType: tmdb.MediaMovie}})

	env := &Env{
		Config:  config.Config{SessionFile: sessionFile},
		Client:  client,
		Session: holder,
		Overlay: ov,
		Store:   &state.Store{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := env.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if gotMethod != http.MethodDelete || gotPath != "/3/authentication/session" {
		t.Fatalf("request = %s %s, want DELETE /3/authentication/session", gotMethod, gotPath)
	}
	if holder.Current().Active() {
		t.Fatalf("session should be cleared")
	}
	if len(ov.Statuses()) != 0 {
		t.Fatalf("overlay should be reset")
	}
	if _, err := os.Stat(sessionFile); !os.IsNotExist(err) {
		t.Fatalf("session file should be removed, stat err = %v", err)
	}
	if err := env.Logout(context.Background()); err != session.ErrNoSession {
		t.Fatalf("second Logout = %v, want ErrNoSession", err)
	}
}

func TestOpenLogWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "marquee.log")
	logger, closeLog, err := openLog(path, true)
	if err != nil {
		t.Fatalf("openLog returned error: %v", err)
	}
	logger.Debug("hello", "k", 1)
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("log file is empty")
	}
}
