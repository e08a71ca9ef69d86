package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type dialect struct {
	name        string
	placeholder sq.PlaceholderFormat
	// returning is true when INSERT ... RETURNING id is available.
	returning bool
	// singleConn limits the pool to one connection (sqlite writes).
	singleConn bool
	// versionQuery reports the server version.
	versionQuery string

	createMigrations string
	createItems      string
}

var dialects = map[string]dialect{
	"mysql": {
		name:         "mysql",
		placeholder:  sq.Question,
		versionQuery: "SELECT VERSION()",
		createMigrations: `CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(255) NOT NULL PRIMARY KEY
)`,
		createItems: `CREATE TABLE IF NOT EXISTS items (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    text VARCHAR(255) NULL,
    completed BOOLEAN NULL,
    created_at DATETIME(6) NOT NULL,
    updated_at DATETIME(6) NOT NULL
)`,
	},
	"postgres": {
		name:         "postgres",
		placeholder:  sq.Dollar,
		returning:    true,
		versionQuery: "SELECT version()",
		createMigrations: `CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(255) NOT NULL PRIMARY KEY
)`,
		createItems: `CREATE TABLE IF NOT EXISTS items (
    id BIGSERIAL PRIMARY KEY,
    text VARCHAR(255),
    completed BOOLEAN,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
	},
	"sqlite3": {
		name:         "sqlite3",
		placeholder:  sq.Question,
		returning:    true,
		singleConn:   true,
		versionQuery: "SELECT sqlite_version()",
		createMigrations: `CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(255) NOT NULL PRIMARY KEY
)`,
		createItems: `CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text VARCHAR(255),
    completed BOOLEAN,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
)`,
	},
}

func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, &Error{Op: "open", Err: fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)}
	}
	return d, nil
}
