package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	"github.com/telmeet/conference-scheduler/internal/domain/repositories"
)

// draftRepository implements the DraftRepository interface
type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *gorm.DB) repositories.DraftRepository {
	return &draftRepository{db: db}
}

// Create creates a new draft
func (r *draftRepository) Create(ctx context.Context, draft *entities.ConferenceDraft) error {
	return r.db.WithContext(ctx).Create(draft).Error
}

// FindByID retrieves a draft by its ID
func (r *draftRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ConferenceDraft, error) {
	var draft entities.ConferenceDraft
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&draft).Error

	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// Update updates an existing draft
func (r *draftRepository) Update(ctx context.Context, draft *entities.ConferenceDraft) error {
	return r.db.WithContext(ctx).Save(draft).Error
}

// Delete deletes a draft
func (r *draftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.ConferenceDraft{}, id).Error
}

// List retrieves drafts with filters and pagination
func (r *draftRepository) List(ctx context.Context, filters repositories.DraftFilters) ([]*entities.ConferenceDraft, int64, error) {
	var drafts []*entities.ConferenceDraft
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.ConferenceDraft{})

	if filters.Editing != nil {
		if *filters.Editing {
			query = query.Where("editing_address IS NOT NULL AND editing_address <> ''")
		} else {
			query = query.Where("editing_address IS NULL OR editing_address = ''")
		}
	}
	if filters.Search != "" {
		searchPattern := fmt.Sprintf("%%%s%%", filters.Search)
		query = query.Where("subject ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if filters.SortBy != "" {
		sortBy = filters.SortBy
	}
	sortOrder := "DESC"
	if filters.SortOrder != "" {
		sortOrder = filters.SortOrder
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	err := query.Find(&drafts).Error
	return drafts, total, err
}
