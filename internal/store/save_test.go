package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poseidon/internal/backup"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestSave_WritesTabIndentedJSON(t *testing.T) {
	s := newTestStore(t, nil)

	got, err := s.Save("db", map[string]any{"port": 80, "hosts": []string{"a"}}, SaveOptions{})
	require.NoError(t, err)
	assert.Same(t, s, got)

	assert.Equal(t, "{\n\t\"hosts\": [\n\t\t\"a\"\n\t],\n\t\"port\": 80\n}",
		readFile(t, filepath.Join(s.Dir(), "config.db.json")))
}

func TestSave_DefaultAndHiddenFileNames(t *testing.T) {
	s := newTestStore(t, nil)

	_, err := s.Save("_", map[string]any{}, SaveOptions{})
	require.NoError(t, err)
	_, err = s.Save(".secrets", map[string]any{}, SaveOptions{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(s.Dir(), "config.json"))
	assert.FileExists(t, filepath.Join(s.Dir(), ".config.secrets.json"))
}

func TestSave_RoundTrip(t *testing.T) {
	s := newTestStore(t, nil)
	doc := map[string]any{
		"name":   "x",
		"_path":  "rel/x",
		"nested": map[string]any{"_p": "a", "list": []any{"keep"}},
	}

	_, err := s.Save("app", doc, SaveOptions{})
	require.NoError(t, err)

	v, err := s.Load("app")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name": "x",
		"path": filepath.Join(s.Dir(), "rel/x"),
		"nested": map[string]any{
			"p":    filepath.Join(s.Dir(), "a"),
			"list": []any{"keep"},
		},
	}, v.Export())
}

func TestSave_DoesNotRefreshCache(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.db.json": `{"port":1}`})
	_, err := s.Load("db")
	require.NoError(t, err)

	_, err = s.Save("db", map[string]any{"port": 2}, SaveOptions{})
	require.NoError(t, err)

	cached, _ := s.Config("db")
	assert.Equal(t, map[string]any{"port": float64(1)}, cached.Export())
}

func TestSave_BackupNumbering(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"config.db.json":          `{"v":"current"}`,
		"config.db.1.backup.json": `{"v":1}`,
		"config.db.2.backup.json": `{"v":2}`,
	})

	_, err := s.Save("db", map[string]any{"v": "next"}, SaveOptions{Backup: true})
	require.NoError(t, err)

	assert.Equal(t, `{"v":"current"}`, readFile(t, filepath.Join(s.Dir(), "config.db.3.backup.json")))
	assert.Equal(t, "{\n\t\"v\": \"next\"\n}", readFile(t, filepath.Join(s.Dir(), "config.db.json")))
}

func TestSave_FirstBackupIsOne(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.json": `{"v":0}`})

	_, err := s.Save("_", map[string]any{"v": 1}, SaveOptions{Backup: true})
	require.NoError(t, err)
	_, err = s.Save("_", map[string]any{"v": 2}, SaveOptions{Backup: true})
	require.NoError(t, err)

	entries, err := s.Backups("_", "")
	require.NoError(t, err)
	assert.Equal(t, []backup.Entry{
		{Index: 1, Name: "config.1.backup.json"},
		{Index: 2, Name: "config.2.backup.json"},
	}, entries)
	assert.Equal(t, `{"v":0}`, readFile(t, filepath.Join(s.Dir(), "config.1.backup.json")))
}

func TestSave_BackupDir(t *testing.T) {
	s := newTestStore(t, map[string]string{".config.secrets.json": `{"k":"old"}`})
	dir := filepath.Join(t.TempDir(), "backups")

	_, err := s.Save(".secrets", map[string]any{"k": "new"}, SaveOptions{Backup: true, BackupDir: dir})
	require.NoError(t, err)

	assert.Equal(t, `{"k":"old"}`, readFile(t, filepath.Join(dir, ".config.secrets.1.backup.json")))

	entries, err := s.Backups(".secrets", dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = s.Backups(".secrets", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_BackupWithoutCurrentFile(t *testing.T) {
	s := newTestStore(t, nil)

	_, err := s.Save("db", map[string]any{"v": 1}, SaveOptions{Backup: true})
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoFileExists(t, filepath.Join(s.Dir(), "config.db.json"))
}

func TestSave_UnencodableDocument(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.db.json": `{}`})

	_, err := s.Save("db", map[string]any{"ch": make(chan int)}, SaveOptions{Backup: true})
	require.Error(t, err)

	entries, err := s.Backups("db", "")
	require.NoError(t, err)
	assert.Empty(t, entries, "no backup should be taken for a document that cannot be written")
	assert.Equal(t, `{}`, readFile(t, filepath.Join(s.Dir(), "config.db.json")))
}

func TestSave_FrozenValue(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.src.json": `{"b":1,"a":[true]}`})
	v, err := s.Load("src")
	require.NoError(t, err)

	_, err = s.Save("copy", v, SaveOptions{})
	require.NoError(t, err)

	copied, err := s.Read("copy")
	require.NoError(t, err)
	assert.Equal(t, v.Export(), copied)
}

func TestSave_InvalidToken(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.Save("", map[string]any{}, SaveOptions{})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Backups(".", "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
