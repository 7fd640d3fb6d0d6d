package store

import (
	"fmt"
	"os"
	"regexp"

	"poseidon/internal/configtype"
)

// layout classifies file names in the config directory.
type layout struct {
	defaultFile    *regexp.Regexp // [.]<prefix>.json
	classifiedFile *regexp.Regexp // [.]<prefix>.<slot>.json
	backupFile     *regexp.Regexp // [.]<prefix>[.<slot>].<N>.backup.json
}

func newLayout(prefix string) layout {
	q := regexp.QuoteMeta(prefix)
	return layout{
		defaultFile:    regexp.MustCompile(`^(\.?)` + q + `\.json$`),
		classifiedFile: regexp.MustCompile(`^(\.?)` + q + `\.(.+)\.json$`),
		backupFile:     regexp.MustCompile(`^\.?` + q + `(\..+)?\.\d+\.backup\.json$`),
	}
}

// token returns the type token a file name stands for, if any.
func (l layout) token(name string) (string, bool) {
	if l.backupFile.MatchString(name) {
		return "", false
	}
	if m := l.defaultFile.FindStringSubmatch(name); m != nil {
		return m[1] + configtype.DefaultSlot, true
	}
	// <prefix>._.json would name the default config's slot; it is not a type.
	if m := l.classifiedFile.FindStringSubmatch(name); m != nil && m[2] != configtype.DefaultSlot {
		return m[1] + m[2], true
	}
	return "", false
}

// TypesExist lists the type tokens of the config files present in the
// config directory, in directory order. Backups are left out; hidden
// configs carry their marker, e.g. ".secrets".
func (s *Store) TypesExist() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		ctx := map[string]any{"dir": s.dir}
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, s.t("types.list", ctx), err)
		}
		return nil, fmt.Errorf("%s: %w", s.t("types.list", ctx), err)
	}

	types := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if token, ok := s.layout.token(e.Name()); ok {
			types = append(types, token)
		}
	}
	return types, nil
}
