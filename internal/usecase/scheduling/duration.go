package scheduling

import (
	"github.com/telmeet/conference-scheduler/internal/domain/entities"
	usecaseErrors "github.com/telmeet/conference-scheduler/internal/usecase/errors"
)

// durationEntries is the fixed set of allowed meeting durations.
var durationEntries = []entities.DurationEntry{
	{Minutes: 30, Label: "30min"},
	{Minutes: 60, Label: "1h"},
	{Minutes: 120, Label: "2h"},
}

const defaultDurationIndex = 1 // the 1h entry

// DurationCatalog is the fixed list of allowed meeting durations.
type DurationCatalog struct{}

// NewDurationCatalog creates the catalog.
func NewDurationCatalog() *DurationCatalog {
	return &DurationCatalog{}
}

// List returns the ordered entries. The returned slice must not be mutated.
func (c *DurationCatalog) List() []entities.DurationEntry {
	return durationEntries
}

// Entry returns the entry at index.
func (c *DurationCatalog) Entry(index int) (entities.DurationEntry, error) {
	if index < 0 || index >= len(durationEntries) {
		return entities.DurationEntry{}, usecaseErrors.ErrUnknownDurationIndex
	}
	return durationEntries[index], nil
}

// DefaultIndex returns the index of the 60-minute entry.
func (c *DurationCatalog) DefaultIndex() int {
	return defaultDurationIndex
}
