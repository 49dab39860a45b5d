// Package knowledge turns keyword records into embedding vectors and
// retrieves the most similar records for a natural-language query.
package knowledge

import (
	"context"
	"fmt"

	"github.com/barekit/adscope/pkg/keyword"
)

// Match is one search hit: a stored record with its similarity score.
type Match struct {
	Record keyword.Record `json:"record"`
	Score  float32        `json:"score"`
}

// Embedder is the interface for generating embeddings. It must be
// deterministic: the same text always yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the interface for storing and retrieving record vectors.
type VectorStore interface {
	// Upsert appends records and their vectors. Vector i belongs to
	// record i; implementations must keep the pairing intact.
	Upsert(ctx context.Context, vectors [][]float32, records []keyword.Record) error
	// Search returns up to limit matches ordered by descending
	// similarity. An empty store yields an empty result, not an error.
	Search(ctx context.Context, query []float32, limit int) ([]Match, error)
}

// RecordLister is implemented by stores that can enumerate their records in
// insertion order, e.g. for statistics.
type RecordLister interface {
	Records() []keyword.Record
}

// Snapshotter is implemented by stores that can persist themselves to disk.
type Snapshotter interface {
	Save(path string) error
	Load(path string) error
}

// EmbedError wraps a failed embedding computation.
type EmbedError struct {
	Err error
}

func (e *EmbedError) Error() string {
	return fmt.Sprintf("knowledge: embedding failed: %v", e.Err)
}

func (e *EmbedError) Unwrap() error {
	return e.Err
}

// Index combines an Embedder and a VectorStore into the keyword index.
type Index struct {
	Embedder    Embedder
	VectorStore VectorStore
}

// NewIndex creates a new Index.
func NewIndex(embedder Embedder, store VectorStore) *Index {
	return &Index{
		Embedder:    embedder,
		VectorStore: store,
	}
}

// AddKeywords embeds the canonical description of each record and appends
// vectors and records to the store. The whole batch is embedded in one call,
// so an embedding failure leaves the store untouched.
func (ix *Index) AddKeywords(ctx context.Context, records []keyword.Record) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Description()
	}

	vectors, err := ix.Embedder.Embed(ctx, texts)
	if err != nil {
		return &EmbedError{Err: err}
	}
	if len(vectors) != len(records) {
		return &EmbedError{Err: fmt.Errorf("embedder returned %d vectors for %d records", len(vectors), len(records))}
	}

	return ix.VectorStore.Upsert(ctx, vectors, records)
}

// Search embeds the query with the same model and returns up to k matches
// ordered by descending similarity. Searching an empty index returns an
// empty slice.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Match, error) {
	vectors, err := ix.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, &EmbedError{Err: err}
	}
	if len(vectors) == 0 {
		return nil, &EmbedError{Err: fmt.Errorf("embedder returned no vector for query")}
	}

	return ix.VectorStore.Search(ctx, vectors[0], k)
}

// Records returns the stored records when the underlying store supports
// enumeration, or nil otherwise.
func (ix *Index) Records() []keyword.Record {
	if lister, ok := ix.VectorStore.(RecordLister); ok {
		return lister.Records()
	}
	return nil
}
