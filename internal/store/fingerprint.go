package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns the xxhash of the raw bytes cached for slot.
func (s *Store) Fingerprint(slot string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[slot]
	return e.sum, ok
}

// Changed returns the cached slots whose file on disk no longer matches
// the bytes they were loaded from. Removed files count as changed. The
// cache is not modified; call Reload or Load to pick the changes up.
func (s *Store) Changed() ([]string, error) {
	var changed []string
	for _, typ := range s.cachedTypes() {
		data, err := os.ReadFile(filepath.Join(s.dir, s.FileName(typ)))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				changed = append(changed, typ.Slot)
				continue
			}
			return nil, err
		}
		if sum, ok := s.Fingerprint(typ.Slot); !ok || sum != xxhash.Sum64(data) {
			changed = append(changed, typ.Slot)
		}
	}
	return changed, nil
}
