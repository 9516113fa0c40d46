package conference

import (
	"time"
)

// ParticipantResponse represents an invitee in responses
type ParticipantResponse struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name,omitempty"`
}

// DraftResponse represents a conference draft in responses
type DraftResponse struct {
	ID                 string                `json:"id"`
	Subject            string                `json:"subject"`
	Description        *string               `json:"description,omitempty"`
	Participants       []ParticipantResponse `json:"participants"`
	ScheduleForLater   bool                  `json:"schedule_for_later"`
	Date               *time.Time            `json:"date,omitempty"`
	WallTime           *time.Time            `json:"wall_time,omitempty"`
	TimezoneIndex      int                   `json:"timezone_index"`
	DurationIndex      int                   `json:"duration_index"`
	Encrypted          bool                  `json:"encrypted"`
	SendInviteViaChat  bool                  `json:"send_invite_via_chat"`
	SendInviteViaEmail bool                  `json:"send_invite_via_email"`
	EditingAddress     *string               `json:"editing_address,omitempty"`
	CanProceed         bool                  `json:"can_proceed"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// SubmitResponse represents the outcome of a draft submission
type SubmitResponse struct {
	Address            string   `json:"address"`
	Subject            string   `json:"subject"`
	FailedInvitations  []string `json:"failed_invitations,omitempty"`
	InvitationsSkipped bool     `json:"invitations_skipped"`
}

// ConferenceSummaryResponse represents a scheduled conference in roster
// responses
type ConferenceSummaryResponse struct {
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
}

// DayBucketResponse groups roster entries sharing a calendar day
type DayBucketResponse struct {
	Day         time.Time                   `json:"day"`
	Conferences []ConferenceSummaryResponse `json:"conferences"`
}

// RosterResponse represents the scheduled conference roster
type RosterResponse struct {
	ShowTerminated bool                `json:"show_terminated"`
	Days           []DayBucketResponse `json:"days"`
}

// TimeZoneResponse represents a timezone catalog entry
type TimeZoneResponse struct {
	Index            int    `json:"index"`
	Identifier       string `json:"identifier"`
	GMTOffsetSeconds int    `json:"gmt_offset_seconds"`
}

// DurationResponse represents a duration catalog entry
type DurationResponse struct {
	Index   int    `json:"index"`
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

// CatalogResponse bundles the selection catalogs with their defaults
type CatalogResponse struct {
	Timezones            []TimeZoneResponse `json:"timezones"`
	DefaultTimezoneIndex *int               `json:"default_timezone_index,omitempty"`
	Durations            []DurationResponse `json:"durations"`
	DefaultDurationIndex int                `json:"default_duration_index"`
}
