package testsupport

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var memoryDBCounter atomic.Int64

// NewBunSQLiteDB opens an isolated in-memory sqlite database wrapped in bun.
// The database is closed when the test finishes.
func NewBunSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()
	name := fmt.Sprintf("file:l10n_test_%d?mode=memory&cache=shared", memoryDBCounter.Add(1))
	sqlDB, err := sql.Open("sqlite3", name)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}
