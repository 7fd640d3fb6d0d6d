// Package messages renders human-readable text for error keys.
//
// Catalogs are flat YAML files embedded under catalog/, one per locale.
// Placeholders use the form {name} and are filled from the context map.
// Text lookup never affects control flow: a missing catalog entry still
// renders, just less prettily.
package messages

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured or the requested one
// has no catalog.
const DefaultLocale = "en"

// Func renders the message for key using ctx to fill placeholders.
type Func func(key string, ctx map[string]any) string

// Catalog maps message keys to templates.
type Catalog map[string]string

//go:embed catalog/*.yaml
var catalogFS embed.FS

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

var (
	mu    sync.Mutex
	cache = map[string]Catalog{}
)

// Load decodes the embedded catalog for locale.
func Load(locale string) (Catalog, error) {
	mu.Lock()
	defer mu.Unlock()

	if c, ok := cache[locale]; ok {
		return c, nil
	}

	data, err := catalogFS.ReadFile("catalog/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no message catalog for locale %q: %w", locale, err)
	}

	c := Catalog{}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing message catalog %q: %w", locale, err)
	}
	cache[locale] = c
	return c, nil
}

// Lookup returns the message function for locale, falling back to the
// default locale when locale is empty or unknown.
func Lookup(locale string) Func {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale != "" {
		if c, err := Load(locale); err == nil {
			return c.T
		}
	}
	return T
}

// T renders key from the default catalog.
func T(key string, ctx map[string]any) string {
	c, err := Load(DefaultLocale)
	if err != nil {
		return Identity(key, ctx)
	}
	return c.T(key, ctx)
}

// T renders key from c. Unknown keys fall back to Identity.
func (c Catalog) T(key string, ctx map[string]any) string {
	tmpl, ok := c[key]
	if !ok {
		return Identity(key, ctx)
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := ctx[name]
		if !ok {
			return m
		}
		return fmt.Sprint(v)
	})
}

// Identity renders key followed by the context sorted by name, e.g.
// "config.not_found (file=config.json type=_)".
func Identity(key string, ctx map[string]any) string {
	if len(ctx) == 0 {
		return key
	}
	names := make([]string, 0, len(ctx))
	for k := range ctx {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return key + " (" + strings.Join(parts, " ") + ")"
}
