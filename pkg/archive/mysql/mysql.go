package mysql

import (
	"fmt"

	gormarc "github.com/barekit/adscope/pkg/archive/gorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// New creates a new MySQL archive.
func New(dsn string) (*gormarc.Archive, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return gormarc.New(db)
}
