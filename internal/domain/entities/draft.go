package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConferenceDraft is the mutable, not-yet-submitted representation of a
// conference being created or edited. Participants are stored as an ordered
// jsonb array; insertion order is preserved because it drives invitation
// ordering.
type ConferenceDraft struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Subject            string         `gorm:"type:varchar(255);not null" json:"subject"`
	Description        *string        `gorm:"type:text" json:"description,omitempty"`
	Participants       datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"participants"`
	ScheduleForLater   bool           `gorm:"default:false" json:"schedule_for_later"`
	Date               *time.Time     `json:"date,omitempty"`
	WallTime           *time.Time     `json:"wall_time,omitempty"`
	TimezoneIndex      int            `gorm:"default:0" json:"timezone_index"`
	DurationIndex      int            `gorm:"default:1" json:"duration_index"`
	Encrypted          bool           `gorm:"default:false" json:"encrypted"`
	SendInviteViaChat  bool           `gorm:"default:true" json:"send_invite_via_chat"`
	SendInviteViaEmail bool           `gorm:"default:false" json:"send_invite_via_email"`

	// EditingAddress is set when the draft edits a previously created
	// conference; the orchestrator clones the stored record rather than
	// mutating it in place.
	EditingAddress *string `gorm:"type:varchar(512)" json:"editing_address,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for ConferenceDraft
func (ConferenceDraft) TableName() string {
	return "conference_drafts"
}

// ParticipantList decodes the stored participant array, in insertion order.
func (d *ConferenceDraft) ParticipantList() ([]Address, error) {
	if len(d.Participants) == 0 {
		return nil, nil
	}
	var out []Address
	if err := json.Unmarshal(d.Participants, &out); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}
	return out, nil
}

// SetParticipantList encodes the participant array back onto the draft.
func (d *ConferenceDraft) SetParticipantList(addrs []Address) error {
	if addrs == nil {
		addrs = []Address{}
	}
	raw, err := json.Marshal(addrs)
	if err != nil {
		return fmt.Errorf("failed to encode participants: %w", err)
	}
	d.Participants = raw
	return nil
}

// IsEditing reports whether the draft targets an existing conference.
func (d *ConferenceDraft) IsEditing() bool {
	return d.EditingAddress != nil && *d.EditingAddress != ""
}
