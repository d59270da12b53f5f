package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hostforge/gamehostd/internal/domain/entities"
	"github.com/hostforge/gamehostd/internal/domain/repositories"
)

// stateDocument is the on-disk shape of the registry snapshot.
type stateDocument struct {
	Instances []entities.InstanceRecord `yaml:"instances"`
}

// YAMLStateRepository persists the instance registry to a single YAML file,
// written atomically via a temporary file and rename.
type YAMLStateRepository struct {
	path string
}

// NewYAMLStateRepository creates a state repository backed by the given file.
func NewYAMLStateRepository(path string) repositories.StateRepository {
	return &YAMLStateRepository{path: path}
}

// Save writes the full registry snapshot.
func (it *YAMLStateRepository) Save(records []entities.InstanceRecord) error {
	data, err := yaml.Marshal(stateDocument{Instances: records})
	if err != nil {
		return fmt.Errorf("failed to encode registry state: %w", err)
	}

	if mkErr := os.MkdirAll(filepath.Dir(it.path), 0o755); mkErr != nil {
		return fmt.Errorf("failed to create state directory: %w", mkErr)
	}

	tmp := it.path + ".tmp"
	if writeErr := os.WriteFile(tmp, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write state file: %w", writeErr)
	}
	if renameErr := os.Rename(tmp, it.path); renameErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace state file: %w", renameErr)
	}
	return nil
}

// Load reads the last snapshot; a missing file yields an empty registry.
func (it *YAMLStateRepository) Load() ([]entities.InstanceRecord, error) {
	data, err := os.ReadFile(it.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %q: %w", it.path, err)
	}

	var doc stateDocument
	if unmarshalErr := yaml.Unmarshal(data, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse state file %q: %w", it.path, unmarshalErr)
	}
	return doc.Instances, nil
}
