package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/internal/domain/repositories"
)

// conferenceRecord is the persisted shape of an engine conference-info
// record. The conference address is the natural key.
type conferenceRecord struct {
	Address         string         `gorm:"type:varchar(512);primary_key"`
	ConferenceID    uuid.UUID      `gorm:"type:uuid;not null"`
	Organizer       string         `gorm:"type:varchar(512);not null"`
	Subject         string         `gorm:"type:varchar(255);not null"`
	Description     string         `gorm:"type:text"`
	Participants    datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	StartTime       int64          `gorm:"not null;index"`
	DurationMinutes int            `gorm:"not null"`
	Encrypted       bool           `gorm:"default:false"`

	CreatedAt time.Time `gorm:"default:now()"`
	UpdatedAt time.Time `gorm:"default:now()"`
}

// TableName specifies the table name for conferenceRecord
func (conferenceRecord) TableName() string {
	return "conference_records"
}

func recordFromInfo(info *entities.ConferenceInfo) (*conferenceRecord, error) {
	participants, err := json.Marshal(info.Participants)
	if err != nil {
		return nil, fmt.Errorf("failed to encode participants: %w", err)
	}
	return &conferenceRecord{
		Address:         info.Address,
		ConferenceID:    info.ID,
		Organizer:       info.Organizer.Canonical(),
		Subject:         info.Subject,
		Description:     info.Description,
		Participants:    participants,
		StartTime:       info.StartTime,
		DurationMinutes: info.DurationMinutes,
		Encrypted:       info.Encrypted,
	}, nil
}

func (rec *conferenceRecord) toInfo() (*entities.ConferenceInfo, error) {
	organizer, err := entities.ParseAddress(rec.Organizer)
	if err != nil {
		return nil, fmt.Errorf("failed to parse organizer %q: %w", rec.Organizer, err)
	}
	var participants []entities.Address
	if len(rec.Participants) > 0 {
		if err := json.Unmarshal(rec.Participants, &participants); err != nil {
			return nil, fmt.Errorf("failed to decode participants: %w", err)
		}
	}
	return &entities.ConferenceInfo{
		ID:              rec.ConferenceID,
		Address:         rec.Address,
		Organizer:       organizer,
		Subject:         rec.Subject,
		Description:     rec.Description,
		Participants:    participants,
		StartTime:       rec.StartTime,
		DurationMinutes: rec.DurationMinutes,
		Encrypted:       rec.Encrypted,
	}, nil
}

// conferenceRepository implements the ConferenceRepository interface
type conferenceRepository struct {
	db *gorm.DB
}

// NewConferenceRepository creates a new conference mirror repository
func NewConferenceRepository(db *gorm.DB) repositories.ConferenceRepository {
	return &conferenceRepository{db: db}
}

// Upsert inserts or replaces a record keyed by conference address
func (r *conferenceRepository) Upsert(ctx context.Context, info *entities.ConferenceInfo) error {
	rec, err := recordFromInfo(info)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			UpdateAll: true,
		}).
		Create(rec).Error
}

// FindByAddress retrieves a record by conference address
func (r *conferenceRepository) FindByAddress(ctx context.Context, address string) (*entities.ConferenceInfo, error) {
	var rec conferenceRecord
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		First(&rec).Error

	if err != nil {
		return nil, err
	}
	return rec.toInfo()
}

// ListAll retrieves every mirrored record ordered by start time
func (r *conferenceRepository) ListAll(ctx context.Context) ([]*entities.ConferenceInfo, error) {
	var recs []conferenceRecord
	err := r.db.WithContext(ctx).
		Order("start_time ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return r.toInfos(recs)
}

// ListEndingAfter retrieves records whose end instant is at or after t
func (r *conferenceRepository) ListEndingAfter(ctx context.Context, t time.Time) ([]*entities.ConferenceInfo, error) {
	var recs []conferenceRecord
	err := r.db.WithContext(ctx).
		Where("start_time + duration_minutes * 60 >= ?", t.Unix()).
		Order("start_time ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return r.toInfos(recs)
}

// Delete removes a record by conference address
func (r *conferenceRepository) Delete(ctx context.Context, address string) error {
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Delete(&conferenceRecord{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (r *conferenceRepository) toInfos(recs []conferenceRecord) ([]*entities.ConferenceInfo, error) {
	infos := make([]*entities.ConferenceInfo, 0, len(recs))
	for i := range recs {
		info, err := recs[i].toInfo()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
