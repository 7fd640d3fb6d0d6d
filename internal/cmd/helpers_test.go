package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"poseidon/internal/store"
)

// newTestApp creates an App over a temp directory seeded with files.
func newTestApp(t *testing.T, files map[string]string) (*App, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.New(dir, store.Options{Logger: logger})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	var out bytes.Buffer
	return &App{
		Store: st,
		Log:   logger,
		Out:   &out,
		Err:   io.Discard,
	}, &out
}

func readConfigFile(t *testing.T, app *App, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(app.Store.Dir(), name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}
