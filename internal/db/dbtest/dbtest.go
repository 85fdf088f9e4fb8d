// Package dbtest provides throwaway databases for storage tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"soccer-memo/internal/db"
)

// New returns a migrated in-memory sqlite database private to t.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	DB, err := db.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := DB.DB()
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	// one connection keeps the in-memory database alive and serialises access
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close(DB) })
	return DB
}
