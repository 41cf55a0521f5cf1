package database

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory sqlite database private to the test.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	// one connection serializes writers; shared-cache sqlite reports
	// SQLITE_LOCKED instead of waiting
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
