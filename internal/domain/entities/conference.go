package entities

import (
	"time"

	"github.com/google/uuid"
)

// ConferenceInfo is the engine-level record describing a scheduled or
// in-progress conference. The Address is empty until the engine has resolved
// a conference focus.
type ConferenceInfo struct {
	ID              uuid.UUID `json:"id"`
	Address         string    `json:"address,omitempty"`
	Organizer       Address   `json:"organizer"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description,omitempty"`
	Participants    []Address `json:"participants"`
	StartTime       int64     `json:"start_time"` // epoch seconds; zero for immediate conferences
	DurationMinutes int       `json:"duration_minutes"`
	Encrypted       bool      `json:"encrypted"`
}

// Clone returns a deep copy. Edits to a previously created conference must
// target a clone so the stored record stays intact until the engine commits
// the update.
func (c *ConferenceInfo) Clone() *ConferenceInfo {
	if c == nil {
		return nil
	}
	out := *c
	out.Participants = make([]Address, len(c.Participants))
	copy(out.Participants, c.Participants)
	return &out
}

// EndTime returns the instant the conference ends. Zero-duration records are
// placeholders and have no meaningful end.
func (c *ConferenceInfo) EndTime() time.Time {
	return time.Unix(c.StartTime+int64(c.DurationMinutes)*60, 0)
}
