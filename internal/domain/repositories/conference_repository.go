package repositories

import (
	"context"
	"time"

	"github.com/telmeet/conference-scheduler/internal/domain/entities"
)

// ConferenceRepository mirrors engine conference-info records locally so the
// roster survives restarts. The engine remains the source of truth; this
// store is read-mostly.
type ConferenceRepository interface {
	// Upsert inserts or replaces a record keyed by conference address
	Upsert(ctx context.Context, info *entities.ConferenceInfo) error

	// FindByAddress retrieves a record by conference address
	FindByAddress(ctx context.Context, address string) (*entities.ConferenceInfo, error)

	// ListAll retrieves every mirrored record ordered by start time
	ListAll(ctx context.Context) ([]*entities.ConferenceInfo, error)

	// ListEndingAfter retrieves records whose end instant is at or after t
	ListEndingAfter(ctx context.Context, t time.Time) ([]*entities.ConferenceInfo, error)

	// Delete removes a record by conference address
	Delete(ctx context.Context, address string) error
}
