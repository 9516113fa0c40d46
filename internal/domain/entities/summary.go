package entities

import (
	"fmt"
	"strings"
	"time"
)

// ScheduledConferenceSummary is the read projection of a conference-info
// record shaped for grouped display. Expanded is a presentation toggle and is
// never persisted.
type ScheduledConferenceSummary struct {
	Address              string    `json:"address"`
	Subject              string    `json:"subject"`
	Description          string    `json:"description,omitempty"`
	Time                 string    `json:"time"`
	Date                 string    `json:"date"`
	Duration             string    `json:"duration"`
	Organizer            string    `json:"organizer"`
	ParticipantsShort    string    `json:"participants_short"`
	ParticipantsExpanded string    `json:"participants_expanded"`
	StartTime            time.Time `json:"start_time"`
	Expanded             bool      `json:"expanded"`
}

// NewScheduledConferenceSummary projects a ConferenceInfo for display in the
// given location.
func NewScheduledConferenceSummary(info *ConferenceInfo, loc *time.Location) ScheduledConferenceSummary {
	start := time.Unix(info.StartTime, 0).In(loc)

	short := make([]string, 0, len(info.Participants))
	expanded := make([]string, 0, len(info.Participants))
	for _, p := range info.Participants {
		short = append(short, p.ShortDisplay())
		expanded = append(expanded, p.String())
	}

	return ScheduledConferenceSummary{
		Address:              info.Address,
		Subject:              info.Subject,
		Description:          info.Description,
		Time:                 start.Format("15:04"),
		Date:                 start.Format("Monday, January 2, 2006"),
		Duration:             formatDuration(info.DurationMinutes),
		Organizer:            info.Organizer.ShortDisplay(),
		ParticipantsShort:    strings.Join(short, ", "),
		ParticipantsExpanded: strings.Join(expanded, "\n"),
		StartTime:            start,
	}
}

// formatDuration renders durations the way the duration catalog labels them.
func formatDuration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dmin", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dmin", h, m)
	}
}
