package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

func fixedNow() time.Time {
	return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
}

func TestResolveStartTimestamp_Immediate(t *testing.T) {
	c := fixtureCatalog(t)

	draft := &entities.ConferenceDraft{ScheduleForLater: false}
	got, err := ResolveStartTimestamp(draft, c, entities.TimeZoneEntry{}, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != fixedNow().Unix() {
		t.Fatalf("immediate conference should start now: got %d want %d", got, fixedNow().Unix())
	}
}

func TestResolveStartTimestamp_Scheduled(t *testing.T) {
	c := fixtureCatalog(t)
	utcIndex, _ := c.IndexOf("UTC")

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	wall := time.Date(2000, 1, 1, 9, 30, 0, 0, time.UTC)
	host := entities.TimeZoneEntry{Identifier: "UTC", GMTOffsetSeconds: 0}

	draft := &entities.ConferenceDraft{
		ScheduleForLater: true,
		Date:             &date,
		WallTime:         &wall,
		TimezoneIndex:    utcIndex,
	}

	got, err := ResolveStartTimestamp(draft, c, host, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := date.Unix() + 9*3600 + 30*60
	if got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestResolveStartTimestamp_DayAndTimeFromSeparatePickers(t *testing.T) {
	c := fixtureCatalog(t)
	utcIndex, _ := c.IndexOf("UTC")

	// The date value carries a stray time-of-day and the time value carries a
	// stray date; only the day and time components respectively are used.
	date := time.Date(2026, 3, 10, 17, 45, 12, 0, time.UTC)
	wall := time.Date(1999, 7, 4, 9, 30, 0, 0, time.UTC)
	host := entities.TimeZoneEntry{Identifier: "UTC"}

	draft := &entities.ConferenceDraft{
		ScheduleForLater: true,
		Date:             &date,
		WallTime:         &wall,
		TimezoneIndex:    utcIndex,
	}

	got, err := ResolveStartTimestamp(draft, c, host, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	want := day.Unix() + 9*3600 + 30*60
	if got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestResolveStartTimestamp_TimezoneShift(t *testing.T) {
	c := fixtureCatalog(t)
	tokyoIndex, _ := c.IndexOf("Asia/Tokyo")

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	wall := time.Date(2000, 1, 1, 9, 30, 0, 0, time.UTC)
	host := entities.TimeZoneEntry{Identifier: "America/New_York", GMTOffsetSeconds: -5 * 3600}

	draft := &entities.ConferenceDraft{
		ScheduleForLater: true,
		Date:             &date,
		WallTime:         &wall,
		TimezoneIndex:    tokyoIndex,
	}

	got, err := ResolveStartTimestamp(draft, c, host, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base := date.Unix() + 9*3600 + 30*60
	want := base + int64(9*3600-(-5*3600))
	if got != want {
		t.Fatalf("got %d want %d", got, want)
	}
}

func TestResolveStartTimestamp_MissingFields(t *testing.T) {
	c := fixtureCatalog(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	cases := []*entities.ConferenceDraft{
		{ScheduleForLater: true},
		{ScheduleForLater: true, Date: &date},
	}
	for i, draft := range cases {
		if _, err := ResolveStartTimestamp(draft, c, entities.TimeZoneEntry{}, fixedNow); !errors.Is(err, usecaseErrors.ErrMissingScheduleFields) {
			t.Fatalf("case %d: expected ErrMissingScheduleFields, got %v", i, err)
		}
	}
}

func TestResolveStartTimestamp_BadTimezoneIndex(t *testing.T) {
	c := fixtureCatalog(t)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	wall := date
	draft := &entities.ConferenceDraft{
		ScheduleForLater: true,
		Date:             &date,
		WallTime:         &wall,
		TimezoneIndex:    99,
	}
	if _, err := ResolveStartTimestamp(draft, c, entities.TimeZoneEntry{}, fixedNow); !errors.Is(err, usecaseErrors.ErrUnknownTimezoneIndex) {
		t.Fatalf("expected ErrUnknownTimezoneIndex, got %v", err)
	}
}

func TestResolveStartTimestamp_PreEpochDate(t *testing.T) {
	c := fixtureCatalog(t)
	utcIndex, _ := c.IndexOf("UTC")

	date := time.Date(1969, 12, 31, 6, 0, 0, 0, time.UTC)
	wall := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	host := entities.TimeZoneEntry{Identifier: "UTC"}

	draft := &entities.ConferenceDraft{
		ScheduleForLater: true,
		Date:             &date,
		WallTime:         &wall,
		TimezoneIndex:    utcIndex,
	}

	got, err := ResolveStartTimestamp(draft, c, host, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := int64(-secondsPerDay) + 12*3600
	if got != want {
		t.Fatalf("pre-epoch day must floor toward the past: got %d want %d", got, want)
	}
}

func TestFloorDivMod(t *testing.T) {
	cases := []struct {
		a, b, q, m int64
	}{
		{7, 3, 2, 1},
		{-7, 3, -3, 2},
		{6, 3, 2, 0},
		{-6, 3, -2, 0},
	}
	for _, c := range cases {
		if q := floorDiv(c.a, c.b); q != c.q {
			t.Fatalf("floorDiv(%d, %d) = %d, want %d", c.a, c.b, q, c.q)
		}
		if m := floorMod(c.a, c.b); m != c.m {
			t.Fatalf("floorMod(%d, %d) = %d, want %d", c.a, c.b, m, c.m)
		}
	}
}
