package repositories

import (
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// StateRepository persists the instance registry across daemon restarts.
type StateRepository interface {
	// Save writes the full registry snapshot.
	Save(records []entities.InstanceRecord) error

	// Load reads the last saved snapshot. A missing state file yields an
	// empty registry, not an error.
	Load() ([]entities.InstanceRecord, error)
}
