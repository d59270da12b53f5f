package repositories

import (
	"github.com/hostforge/gamehostd/internal/domain/entities"
)

// RepoConfigRepository loads the per-instance configuration document.
type RepoConfigRepository interface {
	// Load parses the document at the instance working directory. It never
	// fails: a missing file or malformed section degrades to defaults.
	Load(instancePath string) entities.RepoConfig

	// DocumentExists reports whether the instance directory carries a
	// configuration document, used to recognize a valid instance layout.
	DocumentExists(instancePath string) bool
}
