package store

import (
	"fmt"

	"poseidon/internal/configtype"
	"poseidon/internal/frozen"
)

// Accessor is a read-only view of a Store keyed by field or slot name.
//
// Fields of the default config are visible at the top level, ahead of
// slots with the same name. Unknown names can be loaded on demand with
// GetOrLoad. Nothing can be assigned through an Accessor.
type Accessor struct {
	s *Store
}

// Accessor returns the read-only view of s.
func (s *Store) Accessor() *Accessor {
	return &Accessor{s: s}
}

// Self returns the Store behind the view. It is what the reserved key
// configtype.SelfSlot stands for.
func (a *Accessor) Self() *Store { return a.s }

// Get returns key from the cached default config, or the cached config of
// the type key names. A hidden and a visible type share a slot, so the
// cached entry must match the key's visibility. It never loads.
func (a *Accessor) Get(key string) (frozen.Value, bool) {
	if key == configtype.SelfSlot {
		return frozen.Value{}, false
	}

	if def, ok := a.s.Config(configtype.DefaultSlot); ok {
		if v, ok := def.Get(key); ok {
			return v, true
		}
	}
	typ, err := a.s.parse(key)
	if err != nil {
		return frozen.Value{}, false
	}
	return a.s.cached(typ)
}

// GetOrLoad is Get that falls back to LoadSafe(key) on a miss. A key with
// no config file yields an Undefined value and no error.
func (a *Accessor) GetOrLoad(key string) (frozen.Value, error) {
	if v, ok := a.Get(key); ok {
		return v, nil
	}
	if key == configtype.SelfSlot {
		return frozen.Value{}, nil
	}
	return a.s.LoadSafe(key)
}

// Set always fails with ErrReadOnly and changes nothing.
func (a *Accessor) Set(key string, value any) error {
	return fmt.Errorf("%w: %s", ErrReadOnly, a.s.t("config.read_only", map[string]any{"key": key}))
}
