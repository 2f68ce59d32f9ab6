package db

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// To run SQLite so that it works well with our app, we need a few options:
	// - WAL Mode so that reads and writes don't block eachother.
	// - A busy timeout, specifying the duration a connection will wait for a lock.
	// - Foreign keys are enforced.
	// - Immediate transactions, so a transaction that checks and then writes
	//   holds the write lock from the start.
	sqliteOptions = "?_foreign_keys=on&_journal_mode=wal&_busy_timeout=5000&_txlock=immediate"
)

// Open opens a connection pool for the given dialect. The dsn is a file
// path for SQLite and a connection string for PostgreSQL.
func Open(d Dialect, dsn string) (*sql.DB, error) {
	switch d {
	case SQLite:
		return OpenSQLite(dsn)
	case Postgres:
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
}

// OpenSQLite opens a pool of SQLite connections.
//
// SQLite allows a single writer, so the pool is limited to a single
// connection that is never closed. This also keeps in-memory databases
// alive for as long as the pool is open.
func OpenSQLite(dbFile string) (*sql.DB, error) {
	db, err := sql.Open(string(SQLite), dbFile+sqliteOptions)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	return db, nil
}

// OpenPostgres opens a pool of PostgreSQL connections using the pgx driver.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}
