// Package flat implements knowledge.VectorStore with an in-memory,
// exhaustively scanned inner-product index. Vectors are L2-normalized on the
// way in, so inner product equals cosine similarity.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/barekit/adscope/pkg/keyword"
	"github.com/barekit/adscope/pkg/knowledge"
)

// DimensionError reports a vector whose dimensionality disagrees with the
// store.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("flat: vector dimension %d does not match store dimension %d", e.Got, e.Want)
}

// Store keeps records and their normalized vectors in two parallel slices.
// Position is the join key: vector i belongs to record i, and the two slices
// never diverge in length or order.
type Store struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	records   []keyword.Record
}

// New creates an empty Store. The embedding dimensionality is fixed at
// creation; vectors of any other size are rejected.
func New(dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("flat: dimension must be positive, got %d", dimension)
	}
	return &Store{dimension: dimension}, nil
}

// Dimension returns the fixed vector dimensionality.
func (s *Store) Dimension() int {
	return s.dimension
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns a copy of the stored records in insertion order.
func (s *Store) Records() []keyword.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]keyword.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Upsert appends records and their vectors. The batch is validated up front,
// so either every pair is appended or none is.
func (s *Store) Upsert(ctx context.Context, vectors [][]float32, records []keyword.Record) error {
	if len(vectors) != len(records) {
		return fmt.Errorf("flat: got %d vectors for %d records", len(vectors), len(records))
	}

	normalized := make([][]float32, len(vectors))
	for i, vec := range vectors {
		if len(vec) != s.dimension {
			return &DimensionError{Want: s.dimension, Got: len(vec)}
		}
		normalized[i] = normalize(vec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.vectors = append(s.vectors, normalized...)
	s.records = append(s.records, records...)
	return nil
}

// Search scans all stored vectors and returns up to limit matches by
// descending inner product. An empty store yields an empty result.
func (s *Store) Search(ctx context.Context, query []float32, limit int) ([]knowledge.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 || limit <= 0 {
		return []knowledge.Match{}, nil
	}
	if len(query) != s.dimension {
		return nil, &DimensionError{Want: s.dimension, Got: len(query)}
	}

	q := normalize(query)
	matches := make([]knowledge.Match, len(s.vectors))
	for i, vec := range s.vectors {
		matches[i] = knowledge.Match{
			Record: s.records[i],
			Score:  dot(q, vec),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize returns an L2-normalized copy. Zero vectors are returned as-is
// to avoid dividing by zero.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)

	out := make([]float32, len(vec))
	if norm == 0 {
		copy(out, vec)
		return out
	}
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
