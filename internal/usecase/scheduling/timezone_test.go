package scheduling

import (
	"errors"
	"testing"
	"time"

	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

// ref is a winter instant so DST does not shift the fixture offsets.
var ref = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func fixtureCatalog(t *testing.T) *TimeZoneCatalog {
	t.Helper()
	c := NewTimeZoneCatalogFromIdentifiers([]string{
		"Asia/Tokyo",
		"UTC",
		"America/New_York",
		"Not/A_Zone",
	}, ref)
	if c.Len() != 3 {
		t.Fatalf("expected 3 loadable zones, got %d", c.Len())
	}
	return c
}

func TestTimeZoneCatalog_SortedByOffset(t *testing.T) {
	c := fixtureCatalog(t)

	entries := c.List()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].GMTOffsetSeconds > entries[i].GMTOffsetSeconds {
			t.Fatalf("entries not sorted by offset: %v before %v", entries[i-1], entries[i])
		}
	}

	if entries[0].Identifier != "America/New_York" {
		t.Fatalf("expected America/New_York first, got %s", entries[0].Identifier)
	}
	if entries[0].GMTOffsetSeconds != -5*3600 {
		t.Fatalf("expected -18000 offset for New York in winter, got %d", entries[0].GMTOffsetSeconds)
	}
	if entries[2].Identifier != "Asia/Tokyo" {
		t.Fatalf("expected Asia/Tokyo last, got %s", entries[2].Identifier)
	}
	if entries[2].GMTOffsetSeconds != 9*3600 {
		t.Fatalf("expected +32400 offset for Tokyo, got %d", entries[2].GMTOffsetSeconds)
	}
}

func TestTimeZoneCatalog_EntryRange(t *testing.T) {
	c := fixtureCatalog(t)

	if _, err := c.Entry(-1); !errors.Is(err, usecaseErrors.ErrUnknownTimezoneIndex) {
		t.Fatalf("expected ErrUnknownTimezoneIndex, got %v", err)
	}
	if _, err := c.Entry(c.Len()); !errors.Is(err, usecaseErrors.ErrUnknownTimezoneIndex) {
		t.Fatalf("expected ErrUnknownTimezoneIndex, got %v", err)
	}

	entry, err := c.Entry(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Identifier != "UTC" {
		t.Fatalf("expected UTC at index 1, got %s", entry.Identifier)
	}
}

func TestTimeZoneCatalog_IndexOf(t *testing.T) {
	c := fixtureCatalog(t)

	i, ok := c.IndexOf("UTC")
	if !ok || i != 1 {
		t.Fatalf("expected UTC at index 1, got %d ok=%v", i, ok)
	}
	if _, ok := c.IndexOf("Europe/Paris"); ok {
		t.Fatal("expected Europe/Paris to be absent from the fixture catalog")
	}
	if _, ok := c.IndexOf("Not/A_Zone"); ok {
		t.Fatal("unloadable identifier should have been skipped")
	}
}

func TestDurationCatalog(t *testing.T) {
	c := NewDurationCatalog()

	entries := c.List()
	if len(entries) != 3 {
		t.Fatalf("expected 3 durations, got %d", len(entries))
	}

	wantMinutes := []int{30, 60, 120}
	wantLabels := []string{"30min", "1h", "2h"}
	for i, e := range entries {
		if e.Minutes != wantMinutes[i] {
			t.Fatalf("entry %d: expected %d minutes, got %d", i, wantMinutes[i], e.Minutes)
		}
		if e.Label != wantLabels[i] {
			t.Fatalf("entry %d: expected label %q, got %q", i, wantLabels[i], e.Label)
		}
	}

	if c.DefaultIndex() != 1 {
		t.Fatalf("expected default index 1 (1h), got %d", c.DefaultIndex())
	}

	if _, err := c.Entry(3); !errors.Is(err, usecaseErrors.ErrUnknownDurationIndex) {
		t.Fatalf("expected ErrUnknownDurationIndex, got %v", err)
	}
}
