package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
)

// DraftRepository defines the interface for conference draft data access
type DraftRepository interface {
	// Create creates a new draft
	Create(ctx context.Context, draft *entities.ConferenceDraft) error

	// FindByID retrieves a draft by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ConferenceDraft, error)

	// Update updates an existing draft
	Update(ctx context.Context, draft *entities.ConferenceDraft) error

	// Delete deletes a draft
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves drafts with filters
	List(ctx context.Context, filters DraftFilters) ([]*entities.ConferenceDraft, int64, error)
}

// DraftFilters represents filter options for listing drafts
type DraftFilters struct {
	Search    string // Search in subject, description
	Editing   *bool  // only drafts that edit an existing conference
	Limit     int
	Offset    int
	SortBy    string // "created_at", "updated_at", "subject"
	SortOrder string // "asc", "desc"
}
