package postgres

import (
	"fmt"

	gormarc "github.com/barekit/adscope/pkg/archive/gorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New creates a new Postgres archive.
func New(dsn string) (*gormarc.Archive, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	return gormarc.New(db)
}
