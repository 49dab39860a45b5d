// Package archive keeps the append-only history of fetched keyword records.
// Records are immutable: a later fetch of the same term appends a new
// snapshot instead of updating an old one.
package archive

import (
	"context"

	"github.com/barekit/adscope/pkg/keyword"
)

// Archive represents a durable store of keyword record history.
type Archive interface {
	// Append stores one keyword record. Existing snapshots of the same
	// term are never modified.
	Append(ctx context.Context, rec keyword.Record) error
	// History returns all stored snapshots for a term, oldest first.
	History(ctx context.Context, term string) ([]keyword.Record, error)
}
