// Package store implements a read-mostly JSON config store over one
// directory.
//
// Each config type maps to one file (see package configtype). Loading a
// type reads the file, rewrites marked relative paths to absolute ones,
// freezes the result and caches it together with the raw bytes. Saving
// writes a tab-indented JSON document, optionally keeping a numbered backup
// of the previous file first. The cache is only refreshed by Load, Reload
// and Edit, never by Save.
package store

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"poseidon/internal/configtype"
	"poseidon/internal/frozen"
	"poseidon/internal/fsutil"
	"poseidon/internal/messages"
)

// Options configures a Store.
type Options struct {
	// Prefix of every config file name. Defaults to configtype.DefaultPrefix.
	Prefix string

	// Types are loaded eagerly by New. An empty token denotes the default
	// slot.
	Types []string

	// SkipPreloadErrors logs preload failures instead of failing New.
	// Invalid type tokens fail New regardless.
	SkipPreloadErrors bool

	// Logger receives load, save and backup events. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Messages renders error text. Defaults to messages.T.
	Messages messages.Func
}

// entry is the cached result of one successful load. Raw bytes and the
// frozen config are always replaced together.
type entry struct {
	typ    configtype.Type
	raw    []byte
	sum    uint64
	config frozen.Value
}

// Store owns one config directory and the cache of loaded configs.
type Store struct {
	dir    string
	prefix string
	layout layout
	log    *slog.Logger
	t      messages.Func

	mu      sync.RWMutex
	entries map[string]entry // keyed by slot
}

// New creates a Store rooted at dir (the working directory when empty) and
// loads opts.Types. Preload failures are joined into one error.
func New(dir string, opts Options) (*Store, error) {
	t := opts.Messages
	if t == nil {
		t = messages.T
	}

	abs, err := fsutil.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, t("dir.invalid", map[string]any{"value": dir}), err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = configtype.DefaultPrefix
	}
	if strings.TrimSpace(prefix) != prefix || strings.ContainsAny(prefix, `/\`) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, t("prefix.invalid", map[string]any{"value": fmt.Sprintf("%q", prefix)}))
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		dir:     abs,
		prefix:  prefix,
		layout:  newLayout(prefix),
		log:     logger.With(slog.String("dir", abs)),
		t:       t,
		entries: make(map[string]entry),
	}

	if err := s.preload(opts.Types, opts.SkipPreloadErrors); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) preload(tokens []string, skipErrors bool) error {
	var errs *multierror.Error
	for _, token := range tokens {
		if strings.TrimSpace(token) == "" {
			token = configtype.DefaultSlot
		}
		typ, err := s.parse(token)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if _, err := s.LoadType(typ); err != nil {
			if skipErrors {
				s.log.Warn("skipping config preload", slog.String("type", typ.Token()), slog.Any("error", err))
				continue
			}
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Dir returns the absolute config directory.
func (s *Store) Dir() string { return s.dir }

// Prefix returns the config file name prefix.
func (s *Store) Prefix() string { return s.prefix }

// FileName returns the config file name for typ.
func (s *Store) FileName(typ configtype.Type) string {
	return typ.FileName(s.prefix)
}

// Slots returns the sorted slots currently cached.
func (s *Store) Slots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]string, 0, len(s.entries))
	for slot := range s.entries {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

// Config returns the cached config of slot.
func (s *Store) Config(slot string) (frozen.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[slot]
	return e.config, ok
}

// cached returns the cached config of typ's slot if it was loaded for the
// same visibility as typ.
func (s *Store) cached(typ configtype.Type) (frozen.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[typ.Slot]
	if !ok || e.typ.Hidden != typ.Hidden {
		return frozen.Value{}, false
	}
	return e.config, true
}

// Raw returns a copy of the cached raw bytes of slot.
func (s *Store) Raw(slot string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[slot]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(e.raw))
	copy(out, e.raw)
	return out, true
}

// ParseType resolves token the way every Store operation does, reporting
// errors in the Store's language.
func (s *Store) ParseType(token string) (configtype.Type, error) {
	return s.parse(token)
}

func (s *Store) parse(token string) (configtype.Type, error) {
	return configtype.ParseWith(token, true, s.t)
}

func (s *Store) commit(e entry) {
	s.mu.Lock()
	s.entries[e.typ.Slot] = e
	s.mu.Unlock()
}
