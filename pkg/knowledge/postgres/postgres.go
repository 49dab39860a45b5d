package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/barekit/adscope/pkg/keyword"
	"github.com/barekit/adscope/pkg/knowledge"
	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStore implements knowledge.VectorStore using pgvector.
type PostgresStore struct {
	db *gorm.DB
}

// KeywordModel represents the database schema for a stored keyword record.
// Rows are append-only; a re-fetched term becomes a new row.
type KeywordModel struct {
	ID           uint `gorm:"primaryKey"`
	Term         string
	SearchVolume int64
	Competition  string
	CPCLow       float64
	CPCHigh      float64
	CurrencyCode string
	RetrievedAt  time.Time
	Embedding    pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small
}

// TableName overrides the table name.
func (KeywordModel) TableName() string {
	return "keyword_records"
}

// New creates a new PostgresStore.
func New(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(&KeywordModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Upsert appends records with their vectors in one transaction.
func (s *PostgresStore) Upsert(ctx context.Context, vectors [][]float32, records []keyword.Record) error {
	if len(vectors) != len(records) {
		return fmt.Errorf("number of vectors and records must match")
	}

	models := make([]KeywordModel, len(records))
	for i, rec := range records {
		models[i] = KeywordModel{
			Term:         rec.Term,
			SearchVolume: rec.SearchVolume,
			Competition:  string(rec.Competition),
			CPCLow:       rec.CPCLow,
			CPCHigh:      rec.CPCHigh,
			CurrencyCode: rec.CurrencyCode,
			RetrievedAt:  rec.RetrievedAt,
			Embedding:    pgvector.NewVector(vectors[i]),
		}
	}

	return s.db.WithContext(ctx).Create(&models).Error
}

// searchRow carries the model columns plus the computed similarity score.
type searchRow struct {
	Term         string
	SearchVolume int64
	Competition  string
	CPCLow       float64
	CPCHigh      float64
	CurrencyCode string
	RetrievedAt  time.Time
	Score        float32
}

// Search orders by cosine distance (<=> in pgvector) and converts it to a
// similarity score (1 - distance).
func (s *PostgresStore) Search(ctx context.Context, query []float32, limit int) ([]knowledge.Match, error) {
	var rows []searchRow

	vec := pgvector.NewVector(query)
	err := s.db.WithContext(ctx).
		Model(&KeywordModel{}).
		Select("*, 1 - (embedding <=> ?) AS score", vec).
		Order(clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{vec}}).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]knowledge.Match, len(rows))
	for i, row := range rows {
		matches[i] = knowledge.Match{
			Record: keyword.Record{
				Term:         row.Term,
				SearchVolume: row.SearchVolume,
				Competition:  keyword.Competition(row.Competition),
				CPCLow:       row.CPCLow,
				CPCHigh:      row.CPCHigh,
				CurrencyCode: row.CurrencyCode,
				RetrievedAt:  row.RetrievedAt,
			},
			Score: row.Score,
		}
	}

	return matches, nil
}
