package mssql

import (
	"fmt"

	gormarc "github.com/barekit/adscope/pkg/archive/gorm"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// New creates a new MSSQL archive.
func New(dsn string) (*gormarc.Archive, error) {
	db, err := gorm.Open(sqlserver.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open mssql: %w", err)
	}
	return gormarc.New(db)
}
