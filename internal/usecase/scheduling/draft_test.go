package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

func TestCanProceed(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	wall := date

	cases := []struct {
		name  string
		draft entities.ConferenceDraft
		want  bool
	}{
		{"empty subject", entities.ConferenceDraft{}, false},
		{"whitespace subject", entities.ConferenceDraft{Subject: "   "}, false},
		{"immediate with subject", entities.ConferenceDraft{Subject: "standup"}, true},
		{"scheduled missing date", entities.ConferenceDraft{Subject: "standup", ScheduleForLater: true, WallTime: &wall}, false},
		{"scheduled missing time", entities.ConferenceDraft{Subject: "standup", ScheduleForLater: true, Date: &date}, false},
		{"scheduled complete", entities.ConferenceDraft{Subject: "standup", ScheduleForLater: true, Date: &date, WallTime: &wall}, true},
	}

	for _, c := range cases {
		if got := CanProceed(&c.draft); got != c.want {
			t.Fatalf("%s: CanProceed = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNewDraftSession_Defaults(t *testing.T) {
	zones := fixtureCatalog(t)
	snap := NewDraftSession(zones, NewDurationCatalog()).Snapshot()

	if snap.Draft.DurationIndex != 1 {
		t.Fatalf("expected default duration index 1, got %d", snap.Draft.DurationIndex)
	}
	if !snap.Draft.SendInviteViaChat {
		t.Fatal("chat invitations should default to enabled")
	}
	if snap.Draft.ScheduleForLater {
		t.Fatal("a fresh draft should be immediate")
	}
	if snap.CanProceed {
		t.Fatal("a fresh draft has no subject and cannot proceed")
	}
}

func TestDraftSession_Notifications(t *testing.T) {
	zones := fixtureCatalog(t)
	s := NewDraftSession(zones, NewDurationCatalog())

	var snaps []DraftSnapshot
	dispose := s.OnChange(func(snap DraftSnapshot) {
		snaps = append(snaps, snap)
	})

	if len(snaps) != 1 {
		t.Fatalf("listener must fire immediately on registration, got %d calls", len(snaps))
	}

	s.SetSubject("weekly sync")
	if len(snaps) != 2 {
		t.Fatalf("expected a notification per mutation, got %d calls", len(snaps))
	}
	if !snaps[1].CanProceed {
		t.Fatal("setting a subject on an immediate draft should enable proceed")
	}

	dispose()
	s.SetSubject("renamed")
	if len(snaps) != 2 {
		t.Fatal("disposed listener must not be invoked")
	}
}

func TestDraftSession_Participants(t *testing.T) {
	zones := fixtureCatalog(t)
	s := NewDraftSession(zones, NewDurationCatalog())

	alice := entities.MustParseAddress("sip:alice@example.org")
	bob := entities.MustParseAddress("sip:bob@example.org")

	if err := s.AddParticipant(alice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddParticipant(bob); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddParticipant(alice); !errors.Is(err, usecaseErrors.ErrDuplicateInvite) {
		t.Fatalf("expected ErrDuplicateInvite, got %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(snap.Participants))
	}
	if !snap.Participants[0].Equal(alice) || !snap.Participants[1].Equal(bob) {
		t.Fatal("insertion order must be preserved")
	}

	if !s.RemoveParticipant(alice) {
		t.Fatal("expected removal to succeed")
	}
	if s.RemoveParticipant(alice) {
		t.Fatal("removing an absent participant must report false")
	}
	snap = s.Snapshot()
	if len(snap.Participants) != 1 || !snap.Participants[0].Equal(bob) {
		t.Fatalf("unexpected participants after removal: %v", snap.Participants)
	}
}

func TestNewEditSession_CloneOnEdit(t *testing.T) {
	zones := fixtureCatalog(t)
	durations := NewDurationCatalog()

	original := &entities.ConferenceInfo{
		ID:        uuid.New(),
		Address:   "sip:conf-1@conf.example.org",
		Organizer: entities.MustParseAddress("sip:host@example.org"),
		Subject:   "quarterly review",
		Participants: []entities.Address{
			entities.MustParseAddress("sip:alice@example.org"),
		},
		StartTime:       time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC).Unix(),
		DurationMinutes: 120,
		Encrypted:       true,
	}

	s := NewEditSession(original, zones, durations)
	snap := s.Snapshot()

	if snap.Draft.Subject != "quarterly review" {
		t.Fatalf("subject not seeded: %q", snap.Draft.Subject)
	}
	if !snap.Draft.ScheduleForLater {
		t.Fatal("a stored start time should seed a scheduled draft")
	}
	if snap.Draft.DurationIndex != 2 {
		t.Fatalf("expected the 2h duration index, got %d", snap.Draft.DurationIndex)
	}
	if snap.Draft.EditingAddress == nil || *snap.Draft.EditingAddress != original.Address {
		t.Fatal("editing address not recorded")
	}
	if !snap.Draft.Encrypted {
		t.Fatal("encryption flag not seeded")
	}

	// Mutations must not leak into the original record.
	s.SetSubject("renamed")
	if err := s.AddParticipant(entities.MustParseAddress("sip:carol@example.org")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if original.Subject != "quarterly review" {
		t.Fatal("original record subject was mutated")
	}
	if len(original.Participants) != 1 {
		t.Fatal("original record participants were mutated")
	}
}

func TestDraftSession_PersistRoundTrip(t *testing.T) {
	zones := fixtureCatalog(t)
	s := NewDraftSession(zones, NewDurationCatalog())
	s.SetSubject("planning")
	s.SetScheduleForLater(true)
	date := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	s.SetDate(&date)
	s.SetTime(&date)
	if err := s.AddParticipant(entities.MustParseAddress("sip:dave@example.org")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	draft, err := s.Persistable()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resumed, err := ResumeDraftSession(draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := resumed.Snapshot()
	if snap.Draft.Subject != "planning" {
		t.Fatalf("subject lost in round trip: %q", snap.Draft.Subject)
	}
	if len(snap.Participants) != 1 || snap.Participants[0].URI != "sip:dave@example.org" {
		t.Fatalf("participants lost in round trip: %v", snap.Participants)
	}
	if !snap.CanProceed {
		t.Fatal("resumed draft should still be submittable")
	}
}
