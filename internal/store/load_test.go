package store

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poseidon/internal/frozen"
)

func TestLoad_IdempotentReload(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"config.db.json": `{"hosts":["a","b"],"_dir":"data","opts":{"ssl":true}}`,
	})

	first, err := s.Load("db")
	require.NoError(t, err)
	second, err := s.Load("db")
	require.NoError(t, err)

	assert.Equal(t, first.Export(), second.Export())
}

func TestLoad_PathRewrite(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"config.path.json": `{"_path":"rel/x"}`,
	})

	v, err := s.Load("path")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"path": filepath.Join(s.Dir(), "rel/x")}, v.Export())
	assert.False(t, v.Has("_path"))
}

func TestLoad_NestedPathRewrite(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"config.json": `{"_paths":{"a":"rel/x","b":{"c":"rel/y"}}}`,
	})

	v, err := s.Load("_")
	require.NoError(t, err)

	a, ok := v.Lookup("paths.a")
	require.True(t, ok)
	got, _ := a.AsString()
	assert.Equal(t, filepath.Join(s.Dir(), "rel/x"), got)

	c, ok := v.Lookup("paths.b.c")
	require.True(t, ok)
	got, _ = c.AsString()
	assert.Equal(t, filepath.Join(s.Dir(), "rel/y"), got)
}

func TestLoad_TopLevelScalarsAndArrays(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"config.null.json":   `null`,
		"config.number.json": `42`,
		"config.string.json": `"_x"`,
		"config.list.json":   `[{"_p":"x"}]`,
	})

	v, err := s.Load("null")
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	v, err = s.Load("number")
	require.NoError(t, err)
	n, _ := v.AsInt()
	assert.Equal(t, int64(42), n)

	v, err = s.Load("string")
	require.NoError(t, err)
	str, _ := v.AsString()
	assert.Equal(t, "_x", str)

	v, err = s.Load("list")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"_p": "x"}}, v.Export())

	assert.Equal(t, []string{"list", "null", "number", "string"}, s.Slots())
}

func TestLoad_CachesRawAndConfigTogether(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.db.json": `{"port":1}`})

	v, err := s.Load("db")
	require.NoError(t, err)

	cached, ok := s.Config("db")
	require.True(t, ok)
	assert.Equal(t, v.Export(), cached.Export())

	raw, ok := s.Raw("db")
	require.True(t, ok)
	assert.Equal(t, `{"port":1}`, string(raw))
}

func TestLoad_FailureKeepsPreviousEntry(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.db.json": `{"port":1}`})
	_, err := s.Load("db")
	require.NoError(t, err)

	writeFiles(t, s.Dir(), map[string]string{"config.db.json": `{"port":`})
	_, err = s.Load("db")
	require.ErrorIs(t, err, ErrParse)
	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)

	raw, _ := s.Raw("db")
	assert.Equal(t, `{"port":1}`, string(raw))
	cached, _ := s.Config("db")
	assert.Equal(t, map[string]any{"port": float64(1)}, cached.Export())

	require.NoError(t, os.Remove(filepath.Join(s.Dir(), "config.db.json")))
	v, err := s.LoadSafe("db")
	require.NoError(t, err)
	assert.True(t, v.IsUndefined())

	raw, _ = s.Raw("db")
	assert.Equal(t, `{"port":1}`, string(raw))
}

func TestLoad_ReplacesNeverMerges(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.db.json": `{"a":1,"b":2}`})
	_, err := s.Load("db")
	require.NoError(t, err)

	writeFiles(t, s.Dir(), map[string]string{"config.db.json": `{"c":3}`})
	_, err = s.Load("db")
	require.NoError(t, err)

	cached, _ := s.Config("db")
	assert.Equal(t, []string{"c"}, cached.Keys())
}

func TestLoad_Missing(t *testing.T) {
	s := newTestStore(t, nil)

	_, err := s.Load("missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	v, err := s.LoadSafe("missing")
	require.NoError(t, err)
	assert.True(t, v.IsUndefined())
	assert.Empty(t, s.Slots())
}

func TestLoadSafe_SuppressesParseErrors(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.bad.json": `not json`})

	v, err := s.LoadSafe("bad")
	require.NoError(t, err)
	assert.Equal(t, frozen.Undefined, v.Kind())
}

func TestLoadSafe_InvalidTokenStillFails(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.LoadSafe("  ")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLoad_HiddenConfig(t *testing.T) {
	s := newTestStore(t, map[string]string{".config.secrets.json": `{"token":"t"}`})

	v, err := s.Load(".secrets")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"token": "t"}, v.Export())

	_, err = s.Load("secrets")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRead_DoesNotCache(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.json": `{"_p":"x"}`})

	doc, err := s.Read("_")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"_p": "x"}, doc)

	raw, err := s.ReadRaw("_")
	require.NoError(t, err)
	assert.Equal(t, `{"_p":"x"}`, string(raw))

	assert.Empty(t, s.Slots())
}

func TestRead_Errors(t *testing.T) {
	s := newTestStore(t, map[string]string{"config.bad.json": `{`})

	_, err := s.Read("bad")
	require.ErrorIs(t, err, ErrParse)

	_, err = s.Read("missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.ReadRaw("")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestReload(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"config.a.json": `{"v":1}`,
		"config.b.json": `{"v":1}`,
	})
	_, err := s.Load("a")
	require.NoError(t, err)
	_, err = s.Load("b")
	require.NoError(t, err)

	writeFiles(t, s.Dir(), map[string]string{
		"config.a.json": `{"v":2}`,
		"config.b.json": `{`,
	})

	err = s.Reload()
	require.ErrorIs(t, err, ErrParse)

	a, _ := s.Config("a")
	assert.Equal(t, map[string]any{"v": float64(2)}, a.Export())
	b, _ := s.Config("b")
	assert.Equal(t, map[string]any{"v": float64(1)}, b.Export())
}

func TestChanged(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"config.a.json": `{"v":1}`,
		"config.b.json": `{"v":1}`,
		"config.c.json": `{"v":1}`,
	})
	for _, token := range []string{"a", "b", "c"} {
		_, err := s.Load(token)
		require.NoError(t, err)
	}

	before, ok := s.Fingerprint("a")
	require.True(t, ok)

	writeFiles(t, s.Dir(), map[string]string{"config.a.json": `{"v":2}`})
	require.NoError(t, os.Remove(filepath.Join(s.Dir(), "config.c.json")))

	changed, err := s.Changed()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, changed)

	_, err = s.Load("a")
	require.NoError(t, err)
	after, _ := s.Fingerprint("a")
	assert.NotEqual(t, before, after)

	changed, err = s.Changed()
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, changed)

	_, ok = s.Fingerprint("zzz")
	assert.False(t, ok)
}
