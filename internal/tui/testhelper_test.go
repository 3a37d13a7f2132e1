package tui

import (
	"io"
	"log/slog"
	"testing"

	"github.com/brewdesk/brewdesk/internal/api"
	"github.com/brewdesk/brewdesk/internal/config"
	"github.com/brewdesk/brewdesk/internal/session"
	"github.com/brewdesk/brewdesk/internal/testutil"
)

// newTestApp creates an App wired to a fake backend and an in-memory
// session store. The window is set to 120x40 and marked ready, so View()
// renders without a WindowSizeMsg.
func newTestApp(t *testing.T, backend *testutil.Backend, magicToken string) (*App, *session.Store) {
	t.Helper()

	store, err := session.NewInMemory()
	if err != nil {
		t.Fatalf("creating session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := api.New(backend.URL(), store, logger)

	cfg := config.Default()
	cfg.Backend.BaseURL = backend.URL()

	app := New(client, store, cfg, logger, magicToken)
	app.width = 120
	app.height = 40
	app.ready = true

	return app, store
}

// newBackend starts a fake backend and registers its shutdown.
func newBackend(t *testing.T) *testutil.Backend {
	t.Helper()
	backend := testutil.NewBackend()
	t.Cleanup(backend.Close)
	return backend
}

// signIn seeds the store with a valid token so the app starts at home.
func signIn(t *testing.T, store *session.Store) {
	t.Helper()
	if err := store.SetToken(testutil.AccessToken); err != nil {
		t.Fatalf("seeding token: %v", err)
	}
}
