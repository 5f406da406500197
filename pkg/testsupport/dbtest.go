package testsupport

import (
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens an in-memory sqlite database private to tb. The
// database is named after the test so repositories under test never see rows
// written by another test, and it is closed on cleanup.
func NewSQLiteMemoryDB(tb testing.TB) *sql.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(tb.Name()))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		tb.Fatalf("open sqlite %s: %v", dsn, err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	return db
}
