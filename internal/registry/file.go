package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/crateworks/typegen/internal"
	"github.com/crateworks/typegen/internal/util"
)

// FileRegistry is a schema registry backed by a local snapshot file, used for
// offline generation.
type FileRegistry struct {
	snapshot *internal.Snapshot
}

var _ internal.SchemaRegistry = (*FileRegistry)(nil)

// GetSnapshot returns the schema snapshot.
func (r *FileRegistry) GetSnapshot() (*internal.Snapshot, error) {
	return r.snapshot, nil
}

// Save the snapshot to a file.
func (r *FileRegistry) Save(filename string) error {
	return save(filename, r.snapshot)
}

func (r *FileRegistry) Close() error {
	return nil
}

// NewFileRegistry creates a schema registry from a snapshot file. The file is
// validated against the snapshot schema before use.
func NewFileRegistry(schemaFile string) (internal.SchemaRegistry, error) {
	if !util.Exists(schemaFile) {
		return nil, fmt.Errorf("snapshot file does not exist: %s", schemaFile)
	}
	buf, err := os.ReadFile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot file: %w", err)
	}
	if err := validateSnapshot(buf); err != nil {
		return nil, fmt.Errorf("invalid snapshot file %s: %w", schemaFile, err)
	}
	var registry FileRegistry
	registry.snapshot = &internal.Snapshot{}
	if err := json.Unmarshal(buf, registry.snapshot); err != nil {
		return nil, fmt.Errorf("error decoding snapshot file: %w", err)
	}
	return &registry, nil
}
