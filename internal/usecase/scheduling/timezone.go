package scheduling

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

// zoneinfoDirs are the places tzdata is installed on the platforms we deploy
// to, in the order the runtime itself probes them.
var zoneinfoDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
	"/etc/zoneinfo",
}

// TimeZoneCatalog enumerates the known timezones, each carrying its GMT
// offset at catalog build time, sorted ascending by offset with identifier
// ties broken lexicographically.
type TimeZoneCatalog struct {
	entries []entities.TimeZoneEntry
	byID    map[string]int
}

// NewTimeZoneCatalog builds a catalog from the system tzdata. The reference
// instant fixes each zone's offset (DST makes offsets time-dependent).
func NewTimeZoneCatalog(ref time.Time) *TimeZoneCatalog {
	return NewTimeZoneCatalogFromIdentifiers(systemZoneIdentifiers(), ref)
}

// NewTimeZoneCatalogFromIdentifiers builds a catalog from an explicit
// identifier list. Identifiers that fail to load are skipped.
func NewTimeZoneCatalogFromIdentifiers(identifiers []string, ref time.Time) *TimeZoneCatalog {
	entries := make([]entities.TimeZoneEntry, 0, len(identifiers))
	for _, id := range identifiers {
		loc, err := time.LoadLocation(id)
		if err != nil {
			continue
		}
		_, offset := ref.In(loc).Zone()
		entries = append(entries, entities.TimeZoneEntry{
			Identifier:       id,
			GMTOffsetSeconds: offset,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].GMTOffsetSeconds != entries[j].GMTOffsetSeconds {
			return entries[i].GMTOffsetSeconds < entries[j].GMTOffsetSeconds
		}
		return entries[i].Identifier < entries[j].Identifier
	})

	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		byID[e.Identifier] = i
	}

	return &TimeZoneCatalog{entries: entries, byID: byID}
}

// List returns the ordered entries. The returned slice must not be mutated.
func (c *TimeZoneCatalog) List() []entities.TimeZoneEntry {
	return c.entries
}

// Entry returns the entry at index.
func (c *TimeZoneCatalog) Entry(index int) (entities.TimeZoneEntry, error) {
	if index < 0 || index >= len(c.entries) {
		return entities.TimeZoneEntry{}, usecaseErrors.ErrUnknownTimezoneIndex
	}
	return c.entries[index], nil
}

// DefaultIndex returns the index of the entry matching the host system's
// timezone. The second return is false when the host zone is not in the
// catalog; callers treat that as "unset" rather than failing.
func (c *TimeZoneCatalog) DefaultIndex() (int, bool) {
	return c.IndexOf(time.Local.String())
}

// IndexOf returns the index of the entry with the given identifier.
func (c *TimeZoneCatalog) IndexOf(identifier string) (int, bool) {
	i, ok := c.byID[identifier]
	return i, ok
}

// Len returns the number of entries.
func (c *TimeZoneCatalog) Len() int {
	return len(c.entries)
}

// systemZoneIdentifiers walks the tzdata tree and collects zone names. The
// uppercase-first-letter convention separates real zones from tzdata
// auxiliary files (posixrules, leap-seconds.list, tab files).
func systemZoneIdentifiers() []string {
	for _, dir := range zoneinfoDirs {
		ids := walkZoneDir(dir)
		if len(ids) > 0 {
			return ids
		}
	}
	return nil
}

func walkZoneDir(root string) []string {
	var ids []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		first := rel[0]
		if first < 'A' || first > 'Z' {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.Contains(rel, ".") {
			return nil
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	return ids
}

// HostLocation returns the process-local timezone, honoring TZ.
func HostLocation() *time.Location {
	if tz := os.Getenv("TZ"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}
