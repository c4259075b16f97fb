package db

import (
	"fmt"
	"path/filepath"

	"github.com/2beens/gymlog/pkg"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens (and creates, if missing) the embedded sqlite database file.
// Use ":memory:" for a throwaway in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := pkg.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("ensure sqlite dir: %w", err)
		}
	}

	gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	return gormDB, nil
}
