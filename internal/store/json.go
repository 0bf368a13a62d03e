package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Driver saves and reloads snapshots so the query server can start without
// re-crawling.
type Driver interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Close() error
}

// Open selects a snapshot driver by name.
func Open(driver, path string) (Driver, error) {
	switch driver {
	case "", "json":
		return NewJSON(path), nil
	case "sqlite":
		return NewSQLite(path)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// JSONStore persists the snapshot as a single JSON document keyed by domain.
type JSONStore struct {
	path string
}

// NewJSON creates a JSONStore writing to path.
func NewJSON(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Save writes the snapshot atomically: temp file in the same directory, then
// rename over the target.
func (j *JSONStore) Save(_ context.Context, s *Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return eris.Wrap(err, "store: marshal snapshot")
	}

	dir := filepath.Dir(j.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return eris.Wrap(err, "store: create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "store: write snapshot")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "store: close temp file")
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrap(err, "store: rename snapshot")
	}
	return nil
}

// Load reads the snapshot document back.
func (j *JSONStore) Load(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: read snapshot %s", j.path)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal snapshot")
	}
	return &s, nil
}

func (j *JSONStore) Close() error { return nil }
