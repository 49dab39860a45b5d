package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/barekit/adscope/pkg/archive/consts"
	"github.com/barekit/adscope/pkg/keyword"
	"gorm.io/gorm"
)

// Archive implements Archive using GORM.
type Archive struct {
	db *gorm.DB
}

// SnapshotModel represents the database schema for a keyword snapshot.
type SnapshotModel struct {
	gorm.Model
	Term         string `gorm:"index"`
	SearchVolume int64
	Competition  string
	CPCLow       float64
	CPCHigh      float64
	CurrencyCode string
	RetrievedAt  time.Time
}

// TableName overrides the table name.
func (SnapshotModel) TableName() string {
	return consts.TableNameKeywords
}

// New creates a new Archive.
func New(db *gorm.DB) (*Archive, error) {
	if err := db.AutoMigrate(&SnapshotModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Append inserts a keyword snapshot. Rows are never updated in place.
func (a *Archive) Append(ctx context.Context, rec keyword.Record) error {
	model := SnapshotModel{
		Term:         rec.Term,
		SearchVolume: rec.SearchVolume,
		Competition:  string(rec.Competition),
		CPCLow:       rec.CPCLow,
		CPCHigh:      rec.CPCHigh,
		CurrencyCode: rec.CurrencyCode,
		RetrievedAt:  rec.RetrievedAt,
	}

	return a.db.WithContext(ctx).Create(&model).Error
}

// History loads the snapshots for a term, oldest first.
func (a *Archive) History(ctx context.Context, term string) ([]keyword.Record, error) {
	var models []SnapshotModel
	if err := a.db.WithContext(ctx).Where("term = ?", term).Order("retrieved_at asc").Find(&models).Error; err != nil {
		return nil, err
	}

	records := make([]keyword.Record, len(models))
	for i, model := range models {
		records[i] = keyword.Record{
			Term:         model.Term,
			SearchVolume: model.SearchVolume,
			Competition:  keyword.Competition(model.Competition),
			CPCLow:       model.CPCLow,
			CPCHigh:      model.CPCHigh,
			CurrencyCode: model.CurrencyCode,
			RetrievedAt:  model.RetrievedAt,
		}
	}

	return records, nil
}
