package roster

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/internal/infrastructure/external/engine"
)

var rosterNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return rosterNow }

func conf(address, subject string, start time.Time, minutes int) *entities.ConferenceInfo {
	return &entities.ConferenceInfo{
		Address:         address,
		Organizer:       entities.MustParseAddress("sip:host@example.org"),
		Subject:         subject,
		StartTime:       start.Unix(),
		DurationMinutes: minutes,
	}
}

func newTestService(eng engine.Engine) *Service {
	return NewService(eng, nil, zap.NewNop(),
		WithClock(fixedClock), WithLocation(time.UTC))
}

func TestRefresh_SameDayBucketing(t *testing.T) {
	eng := engine.NewMockEngine(nil)
	day := time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)
	eng.SeedConferenceInfo(conf("sip:a@c.org", "morning", day.Add(10*time.Hour), 60))
	eng.SeedConferenceInfo(conf("sip:b@c.org", "evening", day.Add(22*time.Hour), 60))
	eng.SeedConferenceInfo(conf("sip:c@c.org", "next day", day.Add(26*time.Hour), 60))

	s := newTestService(eng)
	buckets, err := s.Refresh(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(buckets) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(buckets))
	}
	if !buckets[0].Day.Equal(day) {
		t.Fatalf("expected first bucket on %v, got %v", day, buckets[0].Day)
	}
	if len(buckets[0].Conferences) != 2 {
		t.Fatalf("10:00 and 22:00 share a calendar day, got %d entries", len(buckets[0].Conferences))
	}
	if buckets[0].Conferences[0].Subject != "morning" || buckets[0].Conferences[1].Subject != "evening" {
		t.Fatalf("conferences within a day must be ordered by start time: %v", buckets[0].Conferences)
	}
	if len(buckets[1].Conferences) != 1 || buckets[1].Conferences[0].Subject != "next day" {
		t.Fatalf("unexpected second bucket: %v", buckets[1].Conferences)
	}
}

func TestRefresh_UpcomingFilterWithGrace(t *testing.T) {
	eng := engine.NewMockEngine(nil)
	// Ended 90 minutes ago: inside the two hour grace window.
	eng.SeedConferenceInfo(conf("sip:grace@c.org", "just ended", rosterNow.Add(-150*time.Minute), 60))
	// Ended three hours ago: outside the window.
	eng.SeedConferenceInfo(conf("sip:old@c.org", "long over", rosterNow.Add(-4*time.Hour), 60))
	// Future conference.
	eng.SeedConferenceInfo(conf("sip:future@c.org", "tomorrow", rosterNow.Add(24*time.Hour), 60))
	// Placeholder record with no duration.
	eng.SeedConferenceInfo(conf("sip:placeholder@c.org", "placeholder", rosterNow.Add(24*time.Hour), 0))

	s := newTestService(eng)
	buckets, err := s.Refresh(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var subjects []string
	for _, b := range buckets {
		for _, c := range b.Conferences {
			subjects = append(subjects, c.Subject)
		}
	}
	if len(subjects) != 2 {
		t.Fatalf("expected [just ended, tomorrow], got %v", subjects)
	}
	for _, s := range subjects {
		if s == "long over" || s == "placeholder" {
			t.Fatalf("%q must be filtered out of the upcoming roster", s)
		}
	}
}

func TestRefresh_TerminatedFilter(t *testing.T) {
	eng := engine.NewMockEngine(nil)
	eng.SeedConferenceInfo(conf("sip:past@c.org", "finished", rosterNow.Add(-4*time.Hour), 60))
	eng.SeedConferenceInfo(conf("sip:future@c.org", "upcoming", rosterNow.Add(24*time.Hour), 60))
	eng.SeedConferenceInfo(conf("sip:placeholder@c.org", "placeholder", rosterNow.Add(-4*time.Hour), 0))

	s := newTestService(eng)
	buckets, err := s.Refresh(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(buckets) != 1 || len(buckets[0].Conferences) != 1 {
		t.Fatalf("expected only the finished conference, got %v", buckets)
	}
	if buckets[0].Conferences[0].Subject != "finished" {
		t.Fatalf("unexpected subject %q", buckets[0].Conferences[0].Subject)
	}
}

func TestPushAppend(t *testing.T) {
	eng := engine.NewMockEngine(nil)
	s := newTestService(eng)
	s.Start()
	defer s.Close()

	if _, err := s.Refresh(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pushed := conf("sip:pushed@c.org", "pushed", rosterNow.Add(48*time.Hour), 60)
	eng.PushConferenceInfo(pushed)

	buckets := s.Buckets()
	if len(buckets) != 1 || buckets[0].Conferences[0].Address != "sip:pushed@c.org" {
		t.Fatalf("pushed conference must join the roster without a refresh, got %v", buckets)
	}

	// Duplicate pushes are ignored.
	eng.PushConferenceInfo(pushed)
	buckets = s.Buckets()
	total := 0
	for _, b := range buckets {
		total += len(b.Conferences)
	}
	if total != 1 {
		t.Fatalf("duplicate push must not add a second entry, got %d", total)
	}

	// Placeholder pushes are dropped.
	eng.PushConferenceInfo(conf("sip:placeholder@c.org", "placeholder", rosterNow.Add(48*time.Hour), 0))
	if got := len(s.Buckets()); got != 1 {
		t.Fatalf("placeholder push must be dropped, got %d buckets", got)
	}
}

func TestCloseDetachesSubscription(t *testing.T) {
	eng := engine.NewMockEngine(nil)
	s := newTestService(eng)

	s.Start()
	if eng.PushSubscriberCount() != 1 {
		t.Fatalf("expected 1 push subscriber after Start, got %d", eng.PushSubscriberCount())
	}

	// Start is idempotent.
	s.Start()
	if eng.PushSubscriberCount() != 1 {
		t.Fatalf("Start must not double-subscribe, got %d", eng.PushSubscriberCount())
	}

	s.Close()
	if eng.PushSubscriberCount() != 0 {
		t.Fatalf("expected subscription disposed after Close, got %d", eng.PushSubscriberCount())
	}

	eng.PushConferenceInfo(conf("sip:late@c.org", "late", rosterNow.Add(24*time.Hour), 60))
	if got := len(s.Buckets()); got != 0 {
		t.Fatalf("pushes after Close must be ignored, got %d buckets", got)
	}
}
