package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/crateworks/typegen/internal"
	js "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var snapshotSchema string

var (
	compileOnce    sync.Once
	compiledSchema *js.Schema
	compileErr     error
)

// validateSnapshot checks a snapshot document against the embedded JSON
// Schema before it is trusted.
func validateSnapshot(buf []byte) error {
	compileOnce.Do(func() {
		compiler := js.NewCompiler()
		if err := compiler.AddResource("snapshot.schema.json", strings.NewReader(snapshotSchema)); err != nil {
			compileErr = fmt.Errorf("error adding snapshot schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("snapshot.schema.json")
	})
	if compileErr != nil {
		return compileErr
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return fmt.Errorf("error decoding snapshot: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("snapshot failed validation: %w", err)
	}
	return nil
}

// save writes a snapshot to a file as indented JSON.
func save(filename string, snapshot *internal.Snapshot) error {
	buf, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}
	if err := os.WriteFile(filename, buf, 0644); err != nil {
		return fmt.Errorf("error writing snapshot file: %w", err)
	}
	return nil
}
