package scheduling

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

// CanProceed is the mandatory-field predicate: the subject must be non-empty
// after trimming, and when scheduling for later both date and time must be
// set. Pure; recomputed on every relevant mutation.
func CanProceed(draft *entities.ConferenceDraft) bool {
	if strings.TrimSpace(draft.Subject) == "" {
		return false
	}
	if !draft.ScheduleForLater {
		return true
	}
	return draft.Date != nil && draft.WallTime != nil
}

// DraftSession wraps a draft with change notification. Listeners receive a
// snapshot after each mutation; registration returns a disposal function
// that must be called on teardown.
type DraftSession struct {
	mu        sync.Mutex
	draft     entities.ConferenceDraft
	invitees  []entities.Address
	existing  *entities.ConferenceInfo
	listeners map[int]func(DraftSnapshot)
	nextID    int
}

// DraftSnapshot is the immutable view delivered to listeners.
type DraftSnapshot struct {
	Draft        entities.ConferenceDraft
	Participants []entities.Address
	CanProceed   bool
}

// NewDraftSession starts a session for a fresh conference draft with the
// catalog defaults applied.
func NewDraftSession(zones *TimeZoneCatalog, durations *DurationCatalog) *DraftSession {
	tzIndex := 0
	if i, ok := zones.DefaultIndex(); ok {
		tzIndex = i
	}
	return &DraftSession{
		draft: entities.ConferenceDraft{
			ID:                uuid.New(),
			TimezoneIndex:     tzIndex,
			DurationIndex:     durations.DefaultIndex(),
			SendInviteViaChat: true,
		},
		listeners: map[int]func(DraftSnapshot){},
	}
}

// NewEditSession starts a session editing a previously created conference.
// Mutations target a clone: the supplied record is never modified.
func NewEditSession(info *entities.ConferenceInfo, zones *TimeZoneCatalog, durations *DurationCatalog) *DraftSession {
	s := NewDraftSession(zones, durations)
	clone := info.Clone()
	s.existing = clone
	s.draft.Subject = clone.Subject
	if clone.Description != "" {
		desc := clone.Description
		s.draft.Description = &desc
	}
	s.draft.Encrypted = clone.Encrypted
	s.draft.EditingAddress = &clone.Address
	s.invitees = append([]entities.Address(nil), clone.Participants...)

	if clone.StartTime != 0 {
		s.draft.ScheduleForLater = true
		start := time.Unix(clone.StartTime, 0).UTC()
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		s.draft.Date = &day
		s.draft.WallTime = &start
		for i, d := range durations.List() {
			if d.Minutes == clone.DurationMinutes {
				s.draft.DurationIndex = i
				break
			}
		}
	}
	return s
}

// ResumeDraftSession rebuilds a session from a persisted draft.
func ResumeDraftSession(draft *entities.ConferenceDraft) (*DraftSession, error) {
	invitees, err := draft.ParticipantList()
	if err != nil {
		return nil, err
	}
	return &DraftSession{
		draft:     *draft,
		invitees:  invitees,
		listeners: map[int]func(DraftSnapshot){},
	}, nil
}

// AttachExisting restores the record an edit session targets. A persisted
// draft stores only the editing address, so callers resuming it must resolve
// the record and reattach it before submission. Cloned as in NewEditSession.
func (s *DraftSession) AttachExisting(info *entities.ConferenceInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existing = info.Clone()
}

// OnChange registers a listener and returns its disposal function. The
// listener is invoked immediately with the current snapshot.
func (s *DraftSession) OnChange(fn func(DraftSnapshot)) (dispose func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns the current draft state.
func (s *DraftSession) Snapshot() DraftSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ExistingInfo returns the cloned record being edited, or nil for a fresh
// draft.
func (s *DraftSession) ExistingInfo() *entities.ConferenceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existing
}

// SetSubject updates the conference subject.
func (s *DraftSession) SetSubject(subject string) {
	s.mutate(func() { s.draft.Subject = subject })
}

// SetDescription updates the description; empty clears it.
func (s *DraftSession) SetDescription(description string) {
	s.mutate(func() {
		if description == "" {
			s.draft.Description = nil
			return
		}
		s.draft.Description = &description
	})
}

// SetScheduleForLater toggles between immediate and scheduled start. The
// stored date/time values are preserved either way for display.
func (s *DraftSession) SetScheduleForLater(later bool) {
	s.mutate(func() { s.draft.ScheduleForLater = later })
}

// SetDate updates the calendar-date picker value.
func (s *DraftSession) SetDate(date *time.Time) {
	s.mutate(func() { s.draft.Date = date })
}

// SetTime updates the wall-clock picker value. Only its time-of-day
// component is used for timestamp resolution.
func (s *DraftSession) SetTime(t *time.Time) {
	s.mutate(func() { s.draft.WallTime = t })
}

// SetTimezoneIndex selects a timezone catalog entry.
func (s *DraftSession) SetTimezoneIndex(index int) {
	s.mutate(func() { s.draft.TimezoneIndex = index })
}

// SetDurationIndex selects a duration catalog entry.
func (s *DraftSession) SetDurationIndex(index int) {
	s.mutate(func() { s.draft.DurationIndex = index })
}

// SetEncrypted toggles media encryption for the conference.
func (s *DraftSession) SetEncrypted(encrypted bool) {
	s.mutate(func() { s.draft.Encrypted = encrypted })
}

// SetSendInviteViaChat toggles chat invitation dispatch.
func (s *DraftSession) SetSendInviteViaChat(enabled bool) {
	s.mutate(func() { s.draft.SendInviteViaChat = enabled })
}

// SetSendInviteViaEmail toggles email invitation dispatch.
func (s *DraftSession) SetSendInviteViaEmail(enabled bool) {
	s.mutate(func() { s.draft.SendInviteViaEmail = enabled })
}

// AddParticipant appends an address, unique by canonical URI. Insertion
// order is preserved for invitation ordering.
func (s *DraftSession) AddParticipant(addr entities.Address) error {
	if addr.URI == "" {
		return usecaseErrors.ErrInvalidAddress
	}
	var dup bool
	s.mutate(func() {
		for _, existing := range s.invitees {
			if existing.Equal(addr) {
				dup = true
				return
			}
		}
		s.invitees = append(s.invitees, addr)
	})
	if dup {
		return usecaseErrors.ErrDuplicateInvite
	}
	return nil
}

// RemoveParticipant removes the address with the given canonical URI.
func (s *DraftSession) RemoveParticipant(addr entities.Address) bool {
	var removed bool
	s.mutate(func() {
		for i, existing := range s.invitees {
			if existing.Equal(addr) {
				s.invitees = append(s.invitees[:i], s.invitees[i+1:]...)
				removed = true
				return
			}
		}
	})
	return removed
}

// Persistable encodes the session back into its storable draft entity.
func (s *DraftSession) Persistable() (*entities.ConferenceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.draft
	if err := draft.SetParticipantList(s.invitees); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *DraftSession) mutate(apply func()) {
	s.mu.Lock()
	apply()
	snap := s.snapshotLocked()
	fns := make([]func(DraftSnapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *DraftSession) snapshotLocked() DraftSnapshot {
	participants := make([]entities.Address, len(s.invitees))
	copy(participants, s.invitees)
	return DraftSnapshot{
		Draft:        s.draft,
		Participants: participants,
		CanProceed:   CanProceed(&s.draft),
	}
}
