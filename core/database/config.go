package database

import (
	"fmt"
	"strings"
)

// Config holds connection settings for the book database.
type Config struct {
	// URI is the book location: "sqlite:///path/book.gnucash", a bare
	// filesystem path, or a postgres DSN.
	URI            string
	MaxConnections int
}

const (
	// DriverSQLite is the database/sql driver name for sqlite books.
	DriverSQLite = "sqlite3"
	// DriverPostgres is the database/sql driver name for postgres books.
	DriverPostgres = "postgres"
)

// Resolve maps the configured URI onto a database/sql driver name and DSN.
// GnuCash itself accepts the same URI shapes, so no translation beyond
// scheme stripping is performed.
func (c Config) Resolve() (driver, dsn string, err error) {
	uri := strings.TrimSpace(c.URI)
	switch {
	case uri == "":
		return "", "", fmt.Errorf("empty book uri")
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return DriverPostgres, uri, nil
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite book uri %q has no path", c.URI)
		}
		return DriverSQLite, path + "?_foreign_keys=on", nil
	case strings.Contains(uri, "://"):
		return "", "", fmt.Errorf("unsupported book uri scheme in %q", c.URI)
	default:
		// Bare path; the common case for a local .gnucash file.
		return DriverSQLite, uri + "?_foreign_keys=on", nil
	}
}
