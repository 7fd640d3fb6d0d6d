package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"poseidon/internal/backup"
	"poseidon/internal/configtype"
	"poseidon/internal/fsutil"
)

// SaveOptions controls Save.
type SaveOptions struct {
	// Backup copies the current file to the next numbered backup before
	// writing. The current file must exist.
	Backup bool

	// BackupDir receives backups. Defaults to the config directory and is
	// created when missing.
	BackupDir string
}

// Save writes doc as tab-indented JSON to the config file for token,
// replacing it. The cache is not refreshed; call Load to see the change.
func (s *Store) Save(token string, doc any, opts SaveOptions) (*Store, error) {
	typ, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	return s.SaveType(typ, doc, opts)
}

// SaveType is Save for an already parsed type.
func (s *Store) SaveType(typ configtype.Type, doc any, opts SaveOptions) (*Store, error) {
	name := s.FileName(typ)
	ctx := map[string]any{"file": name, "type": typ.Token()}

	data, err := json.MarshalIndent(doc, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.t("config.encode", ctx), err)
	}

	if opts.Backup {
		if _, err := s.backup(typ, opts.BackupDir); err != nil {
			return nil, err
		}
	}

	if err := fsutil.AtomicWrite(filepath.Join(s.dir, name), data); err != nil {
		return nil, fmt.Errorf("%s: %w", s.t("config.write", ctx), err)
	}

	s.log.Info("saved config", slog.String("type", typ.Token()), slog.String("file", name))
	return s, nil
}

func (s *Store) backup(typ configtype.Type, dir string) (backup.Entry, error) {
	if dir == "" {
		dir = s.dir
	}

	current, err := s.ReadRawType(typ)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			ctx := map[string]any{"file": s.FileName(typ), "type": typ.Token()}
			return backup.Entry{}, fmt.Errorf("%s: %w", s.t("backup.source_missing", ctx), err)
		}
		return backup.Entry{}, err
	}

	stem := typ.Stem(s.prefix)
	e, err := backup.Write(dir, stem, current)
	if err != nil {
		ctx := map[string]any{"file": stem + backup.Suffix, "type": typ.Token()}
		return backup.Entry{}, fmt.Errorf("%s: %w", s.t("backup.write", ctx), err)
	}

	s.log.Info("backed up config",
		slog.String("type", typ.Token()),
		slog.String("backup", e.Name),
		slog.Int("index", e.Index),
	)
	return e, nil
}

// Backups lists the numbered backups of token in dir (the config directory
// when empty), oldest first.
func (s *Store) Backups(token, dir string) ([]backup.Entry, error) {
	typ, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = s.dir
	}
	return backup.Scan(dir, typ.Stem(s.prefix))
}
