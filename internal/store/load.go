package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-multierror"

	"poseidon/internal/configtype"
	"poseidon/internal/frozen"
	"poseidon/internal/pathrewrite"
)

// ReadRaw returns the bytes of the config file for token without touching
// the cache.
func (s *Store) ReadRaw(token string) ([]byte, error) {
	typ, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	return s.ReadRawType(typ)
}

// ReadRawType is ReadRaw for an already parsed type.
func (s *Store) ReadRawType(typ configtype.Type) ([]byte, error) {
	name := s.FileName(typ)
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		ctx := map[string]any{"file": name, "type": typ.Token()}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, s.t("config.not_found", ctx), err)
		}
		return nil, fmt.Errorf("%s: %w", s.t("config.read", ctx), err)
	}
	return data, nil
}

// Read returns the parsed, unfrozen and unrewritten config for token. The
// cache is not touched.
func (s *Store) Read(token string) (any, error) {
	typ, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	return s.ReadType(typ)
}

// ReadType is Read for an already parsed type.
func (s *Store) ReadType(typ configtype.Type) (any, error) {
	raw, err := s.ReadRawType(typ)
	if err != nil {
		return nil, err
	}
	return s.decode(typ, raw)
}

func (s *Store) decode(typ configtype.Type, raw []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		ctx := map[string]any{"file": s.FileName(typ), "type": typ.Token()}
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, s.t("config.parse", ctx), err)
	}
	return doc, nil
}

// Load reads, rewrites and freezes the config for token and replaces its
// cache entry. On failure the previous entry, if any, is left as it was.
func (s *Store) Load(token string) (frozen.Value, error) {
	typ, err := s.parse(token)
	if err != nil {
		return frozen.Value{}, err
	}
	return s.LoadType(typ)
}

// LoadType is Load for an already parsed type.
func (s *Store) LoadType(typ configtype.Type) (frozen.Value, error) {
	raw, err := s.ReadRawType(typ)
	if err != nil {
		return frozen.Value{}, err
	}
	doc, err := s.decode(typ, raw)
	if err != nil {
		return frozen.Value{}, err
	}

	if m, ok := doc.(map[string]any); ok {
		doc = pathrewrite.Absolutize(m, s.dir)
	}
	config := frozen.Freeze(doc)

	s.commit(entry{
		typ:    typ,
		raw:    raw,
		sum:    xxhash.Sum64(raw),
		config: config,
	})

	s.log.Debug("loaded config",
		slog.String("type", typ.Token()),
		slog.String("file", s.FileName(typ)),
		slog.Int("bytes", len(raw)),
	)
	return config, nil
}

// LoadSafe is Load that reports a missing or unreadable config as an
// Undefined value instead of an error. Invalid tokens still fail.
func (s *Store) LoadSafe(token string) (frozen.Value, error) {
	v, err := s.Load(token)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			return frozen.Value{}, err
		}
		s.log.Debug("config not loaded", slog.String("type", token), slog.Any("error", err))
		return frozen.Value{}, nil
	}
	return v, nil
}

// Reload loads every cached type again. Slots that fail keep their previous
// entry; the failures are returned joined.
func (s *Store) Reload() error {
	var errs *multierror.Error
	for _, typ := range s.cachedTypes() {
		if _, err := s.LoadType(typ); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

func (s *Store) cachedTypes() []configtype.Type {
	slots := s.Slots()

	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]configtype.Type, 0, len(slots))
	for _, slot := range slots {
		if e, ok := s.entries[slot]; ok {
			types = append(types, e.typ)
		}
	}
	return types
}
