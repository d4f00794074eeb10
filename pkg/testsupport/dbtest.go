// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a named shared-cache in-memory database. Tests
// pass their own name so parallel packages do not share tables.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(strings.TrimSpace(name))
	if name == "" {
		name = "agency"
	}
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
}

// NewBunDB wraps NewSQLiteMemoryDB with the sqlite dialect and a single
// connection so the in-memory database outlives individual queries.
func NewBunDB(name string) (*bun.DB, error) {
	sqlDB, err := NewSQLiteMemoryDB(name)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db, nil
}
