package entities

import (
	"testing"
	"time"
)

func TestNewScheduledConferenceSummary(t *testing.T) {
	info := &ConferenceInfo{
		Address:   "sip:conf-1@conf.example.org",
		Organizer: MustParseAddress("sip:host@example.org"),
		Subject:   "roadmap",
		Participants: []Address{
			{URI: "sip:alice@example.org", DisplayName: "Alice"},
			MustParseAddress("sip:bob@example.org"),
		},
		StartTime:       time.Date(2026, 7, 3, 9, 30, 0, 0, time.UTC).Unix(),
		DurationMinutes: 90,
	}

	s := NewScheduledConferenceSummary(info, time.UTC)

	if s.Time != "09:30" {
		t.Fatalf("unexpected time %q", s.Time)
	}
	if s.Date != "Friday, July 3, 2026" {
		t.Fatalf("unexpected date %q", s.Date)
	}
	if s.Duration != "1h30min" {
		t.Fatalf("unexpected duration %q", s.Duration)
	}
	if s.Organizer != "host" {
		t.Fatalf("unexpected organizer %q", s.Organizer)
	}
	if s.ParticipantsShort != "Alice, bob" {
		t.Fatalf("unexpected short list %q", s.ParticipantsShort)
	}
	if s.ParticipantsExpanded != "Alice <sip:alice@example.org>\nsip:bob@example.org" {
		t.Fatalf("unexpected expanded list %q", s.ParticipantsExpanded)
	}
	if s.Expanded {
		t.Fatal("summaries start collapsed")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		30:  "30min",
		60:  "1h",
		120: "2h",
		90:  "1h30min",
	}
	for minutes, want := range cases {
		if got := formatDuration(minutes); got != want {
			t.Fatalf("formatDuration(%d) = %q, want %q", minutes, got, want)
		}
	}
}

func TestConferenceInfoClone(t *testing.T) {
	info := &ConferenceInfo{
		Subject:      "original",
		Participants: []Address{MustParseAddress("sip:alice@example.org")},
	}

	clone := info.Clone()
	clone.Subject = "changed"
	clone.Participants[0] = MustParseAddress("sip:mallory@example.org")
	clone.Participants = append(clone.Participants, MustParseAddress("sip:bob@example.org"))

	if info.Subject != "original" {
		t.Fatal("clone shares the subject")
	}
	if len(info.Participants) != 1 || info.Participants[0].URI != "sip:alice@example.org" {
		t.Fatal("clone shares the participant slice")
	}
}

func TestEndTime(t *testing.T) {
	start := time.Date(2026, 7, 3, 9, 0, 0, 0, time.UTC)
	info := &ConferenceInfo{StartTime: start.Unix(), DurationMinutes: 60}
	if !info.EndTime().Equal(start.Add(time.Hour)) {
		t.Fatalf("unexpected end time %v", info.EndTime())
	}
}
