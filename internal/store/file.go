package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const progressSchemaURL = "schema://progress.json"

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// FileStore persists the progress record as a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore for the file at path. The file and its
// directory are created on the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the progress file path.
func (f *FileStore) Path() string {
	return f.path
}

// LoadProgress reads and validates the progress file.
func (f *FileStore) LoadProgress(_ context.Context) (*ProgressRecord, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorrupt)
	}

	return decodeProgress(raw)
}

// decodeProgress validates raw against the progress schema and decodes it.
func decodeProgress(raw []byte) (*ProgressRecord, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %w", ErrCorrupt, err)
	}

	compiled, err := progressValidator()
	if err != nil {
		return nil, fmt.Errorf("compile progress schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: schema validation failed: %w", ErrCorrupt, err)
	}

	var rec ProgressRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCorrupt, err)
	}
	rec.Normalize()
	return &rec, nil
}

// SaveProgress writes the record to a temporary file in the same directory
// and renames it over the progress file.
func (f *FileStore) SaveProgress(_ context.Context, rec *ProgressRecord) error {
	if err := EnsureDir(f.path); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	out := *rec
	out.Normalize()
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".progress-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// progressValidator compiles the progress schema once.
func progressValidator() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(progressSchema), &doc); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(progressSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(progressSchemaURL)
	})
	return compiledSchema, compileErr
}
