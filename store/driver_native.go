//go:build !cgo_sqlite

package store

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Driver is the name of the database/sql driver backing the library.
const Driver = "sqlite"

func openDB(dsn string) (*sql.DB, error) {
	return sql.Open(Driver, dsn)
}
