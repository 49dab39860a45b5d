package sqlite

import (
	"fmt"

	gormarc "github.com/barekit/adscope/pkg/archive/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New creates a new SQLite archive.
func New(dsn string) (*gormarc.Archive, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	return gormarc.New(db)
}
