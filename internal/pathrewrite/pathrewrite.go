// Package pathrewrite turns marked relative paths in a config document into
// absolute paths.
//
// A key starting with Marker marks a path. The marker is stripped from the
// key and:
//   - a string value is resolved against the base directory;
//   - an object value is copied with every string at every depth resolved,
//     whether or not the nested keys carry the marker.
//
// Other marked values keep their key unchanged. Unmarked objects are walked
// with the same rules. Arrays are never walked.
package pathrewrite

import (
	"path/filepath"
	"sort"
	"strings"
)

// Marker prefixes keys whose values are paths.
const Marker = "_"

// Absolutize returns a rewritten copy of doc. doc itself is not modified and
// shares no maps or slices with the result.
func Absolutize(doc map[string]any, dir string) map[string]any {
	out := make(map[string]any, len(doc))

	var marked []string
	for k, v := range doc {
		if strings.HasPrefix(k, Marker) {
			marked = append(marked, k)
			continue
		}
		if m, ok := v.(map[string]any); ok {
			out[k] = Absolutize(m, dir)
			continue
		}
		out[k] = clone(v)
	}

	// Marked keys are applied last and in order, so a rewritten "_path"
	// replaces a plain "path" deterministically.
	sort.Strings(marked)
	for _, k := range marked {
		name := strings.TrimPrefix(k, Marker)
		switch v := doc[k].(type) {
		case string:
			out[name] = Resolve(dir, v)
		case map[string]any:
			out[name] = resolveAll(v, dir)
		default:
			out[k] = clone(v)
		}
	}

	return out
}

// Resolve returns p as an absolute, cleaned path, resolving relative paths
// against dir. An empty p resolves to dir.
func Resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

func resolveAll(m map[string]any, dir string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case string:
			out[k] = Resolve(dir, tv)
		case map[string]any:
			out[k] = resolveAll(tv, dir)
		default:
			out[k] = clone(v)
		}
	}
	return out
}

func clone(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = clone(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = clone(e)
		}
		return out
	}
	return v
}
