// Package history persists session snapshots so a session can be replayed
// after restart. A snapshot carries only the submitted snippet texts in
// order; replaying them through a fresh engine reconstructs every declaration
// and binding.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Snapshot format changes
const snapshotSchemaVersion uint16 = 1

// Snapshot is the on-disk form of one session's input history.
type Snapshot struct {
	Schema  uint16
	SavedAt time.Time
	Texts   []string
}

// Save msgpack-encodes the snapshot to path via an atomic
// write-temp-then-rename.
func Save(path string, texts []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	snapshot := Snapshot{
		Schema:  snapshotSchemaVersion,
		SavedAt: time.Now(),
		Texts:   texts,
	}
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&snapshot); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads a snapshot from path. A missing file reports ok=false with a nil
// error; a schema mismatch is an error so stale snapshots never replay
// silently wrong.
func Load(path string) (Snapshot, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}
	defer f.Close()

	var snapshot Snapshot
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&snapshot); err != nil {
		return Snapshot{}, false, err
	}
	if snapshot.Schema != snapshotSchemaVersion {
		return Snapshot{}, false, fmt.Errorf("snapshot schema %d is not supported", snapshot.Schema)
	}
	return snapshot, true, nil
}
