package conference

import (
	"time"
)

// CreateDraftRequest represents the request to create a conference draft
type CreateDraftRequest struct {
	Subject            string     `json:"subject" validate:"omitempty,max=255"`
	Description        *string    `json:"description,omitempty"`
	Participants       []string   `json:"participants,omitempty" validate:"dive,min=1,max=512"`
	ScheduleForLater   bool       `json:"schedule_for_later"`
	Date               *time.Time `json:"date,omitempty"`
	WallTime           *time.Time `json:"wall_time,omitempty"`
	TimezoneIndex      *int       `json:"timezone_index,omitempty" validate:"omitempty,min=0"`
	DurationIndex      *int       `json:"duration_index,omitempty" validate:"omitempty,min=0"`
	Encrypted          bool       `json:"encrypted"`
	SendInviteViaChat  *bool      `json:"send_invite_via_chat,omitempty"`
	SendInviteViaEmail bool       `json:"send_invite_via_email"`

	// EditAddress switches the draft into edit mode for the conference with
	// this address; its stored record seeds the draft fields.
	EditAddress string `json:"edit_address,omitempty" validate:"omitempty,max=512"`
}

// UpdateDraftRequest represents a partial update to a conference draft.
// Only set fields are applied.
type UpdateDraftRequest struct {
	Subject            *string    `json:"subject,omitempty" validate:"omitempty,max=255"`
	Description        *string    `json:"description,omitempty"`
	ScheduleForLater   *bool      `json:"schedule_for_later,omitempty"`
	Date               *time.Time `json:"date,omitempty"`
	WallTime           *time.Time `json:"wall_time,omitempty"`
	TimezoneIndex      *int       `json:"timezone_index,omitempty" validate:"omitempty,min=0"`
	DurationIndex      *int       `json:"duration_index,omitempty" validate:"omitempty,min=0"`
	Encrypted          *bool      `json:"encrypted,omitempty"`
	SendInviteViaChat  *bool      `json:"send_invite_via_chat,omitempty"`
	SendInviteViaEmail *bool      `json:"send_invite_via_email,omitempty"`
}

// AddParticipantRequest represents the request to add an invitee to a draft
type AddParticipantRequest struct {
	Address     string `json:"address" validate:"required,min=1,max=512"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=255"`
}

// ListDraftsRequest represents query parameters for listing drafts
type ListDraftsRequest struct {
	Search    string `query:"search"`
	Editing   *bool  `query:"editing"`
	Page      int    `query:"page" validate:"min=1"`
	PageSize  int    `query:"page_size" validate:"min=1,max=100"`
	SortBy    string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at subject"`
	SortOrder string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// ListConferencesRequest represents query parameters for the scheduled
// conference roster
type ListConferencesRequest struct {
	ShowTerminated bool `query:"show_terminated"`
}
