package flat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/barekit/adscope/pkg/keyword"
	"github.com/google/uuid"
)

// SchemaVersion is the on-disk snapshot schema version. Loads of any other
// version fail loudly instead of deserializing incompatible structures.
const SchemaVersion = 1

const (
	indexSuffix   = ".index"
	recordsSuffix = ".records"
)

// ErrSnapshotTorn is returned when only one of the two snapshot artifacts
// exists, or when their stamps disagree. It indicates an interrupted save.
var ErrSnapshotTorn = errors.New("flat: snapshot artifacts are inconsistent")

// SchemaVersionError reports a snapshot written with an incompatible schema.
type SchemaVersionError struct {
	Want int
	Got  int
}

func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("flat: snapshot schema version %d is not supported (want %d)", e.Got, e.Want)
}

// indexSnapshot is the <stem>.index artifact: the similarity-index structure.
type indexSnapshot struct {
	SchemaVersion int         `json:"schema_version"`
	Stamp         string      `json:"stamp"`
	Dimension     int         `json:"dimension"`
	Vectors       [][]float32 `json:"vectors"`
}

// recordsSnapshot is the <stem>.records artifact: the ordered record bundle.
type recordsSnapshot struct {
	SchemaVersion int              `json:"schema_version"`
	Stamp         string           `json:"stamp"`
	Records       []keyword.Record `json:"records"`
}

// Save writes the store to <stem>.index and <stem>.records. Each artifact is
// written to a temp file and renamed into place; both carry the same random
// stamp so a save that died between the two renames is detectable on load.
func (s *Store) Save(stem string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stamp := uuid.NewString()

	idx := indexSnapshot{
		SchemaVersion: SchemaVersion,
		Stamp:         stamp,
		Dimension:     s.dimension,
		Vectors:       s.vectors,
	}
	recs := recordsSnapshot{
		SchemaVersion: SchemaVersion,
		Stamp:         stamp,
		Records:       s.records,
	}

	if err := writeArtifact(stem+indexSuffix, idx); err != nil {
		return fmt.Errorf("flat: failed to save index artifact: %w", err)
	}
	if err := writeArtifact(stem+recordsSuffix, recs); err != nil {
		return fmt.Errorf("flat: failed to save records artifact: %w", err)
	}
	return nil
}

// Load replaces the store contents with the snapshot at stem. A snapshot
// with neither artifact present is treated as a first run and leaves the
// store empty. A half-present or stamp-mismatched pair fails with
// ErrSnapshotTorn.
func (s *Store) Load(stem string) error {
	var idx indexSnapshot
	idxFound, err := readArtifact(stem+indexSuffix, &idx)
	if err != nil {
		return fmt.Errorf("flat: failed to load index artifact: %w", err)
	}

	var recs recordsSnapshot
	recsFound, err := readArtifact(stem+recordsSuffix, &recs)
	if err != nil {
		return fmt.Errorf("flat: failed to load records artifact: %w", err)
	}

	if !idxFound && !recsFound {
		return nil
	}
	if idxFound != recsFound {
		return ErrSnapshotTorn
	}

	if idx.SchemaVersion != SchemaVersion {
		return &SchemaVersionError{Want: SchemaVersion, Got: idx.SchemaVersion}
	}
	if recs.SchemaVersion != SchemaVersion {
		return &SchemaVersionError{Want: SchemaVersion, Got: recs.SchemaVersion}
	}
	if idx.Stamp != recs.Stamp {
		return ErrSnapshotTorn
	}
	if len(idx.Vectors) != len(recs.Records) {
		return fmt.Errorf("flat: snapshot has %d vectors but %d records: %w", len(idx.Vectors), len(recs.Records), ErrSnapshotTorn)
	}
	if idx.Dimension != s.dimension {
		return &DimensionError{Want: s.dimension, Got: idx.Dimension}
	}
	for _, vec := range idx.Vectors {
		if len(vec) != s.dimension {
			return &DimensionError{Want: s.dimension, Got: len(vec)}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = idx.Vectors
	s.records = recs.Records
	return nil
}

func writeArtifact(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readArtifact(path string, v any) (bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, v)
}
