package db

import (
	"fmt"
	"strconv"
)

// Dialect identifies the SQL database in use. The values double as the
// goose dialect names.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// ParseDialect parses a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case SQLite, Postgres:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", s)
	}
}

// placeholder returns the bind parameter placeholder for the n-th (1-based) parameter.
func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
