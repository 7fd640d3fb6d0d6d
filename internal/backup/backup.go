// Package backup allocates numbered backup files for config files.
//
// A backup of the config file "<stem>.json" is named
// "<stem>.<N>.backup.json" where N is a positive integer. The next backup
// takes one more than the highest N present, so numbering only grows and
// tolerates gaps. Scanning and writing are not atomic: two writers racing
// on the same stem can pick the same N, and the later rename wins.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"poseidon/internal/fsutil"
)

// Suffix ends every backup file name.
const Suffix = ".backup.json"

// Entry is one backup file found on disk.
type Entry struct {
	Index int    `json:"index"` // N in <stem>.<N>.backup.json
	Name  string `json:"name"`  // base file name
}

// FileName returns the backup file name for stem and index n.
func FileName(stem string, n int) string {
	return stem + "." + strconv.Itoa(n) + Suffix
}

// Pattern matches the backup file names of stem, capturing N.
func Pattern(stem string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(stem) + `\.(\d+)` + regexp.QuoteMeta(Suffix) + `$`)
}

// Scan returns the backups of stem in dir sorted by index. A missing dir
// has no backups.
func Scan(dir, stem string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	re := Pattern(stem)
	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		m := re.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		entries = append(entries, Entry{Index: n, Name: de.Name()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Index < entries[j].Index
	})
	return entries, nil
}

// Next returns the index the next backup of stem in dir should take.
func Next(dir, stem string) (int, error) {
	entries, err := Scan(dir, stem)
	if err != nil {
		return 0, err
	}
	highest := 0
	for _, e := range entries {
		highest = max(highest, e.Index)
	}
	return highest + 1, nil
}

// Write stores data as the next backup of stem in dir, creating dir if
// needed, and returns the entry written.
func Write(dir, stem string, data []byte) (Entry, error) {
	if err := fsutil.EnsureDir(dir); err != nil {
		return Entry{}, err
	}
	n, err := Next(dir, stem)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Index: n, Name: FileName(stem, n)}
	if err := fsutil.AtomicWrite(filepath.Join(dir, e.Name), data); err != nil {
		return Entry{}, fmt.Errorf("writing backup %s: %w", e.Name, err)
	}
	return e, nil
}
