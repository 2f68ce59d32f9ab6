package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/willemschots/accounts/assets"
	"github.com/willemschots/accounts/internal"
	"github.com/willemschots/accounts/internal/db"
)

const helpText = `Usage: dbmigrate [sqlite3|postgres] [dsn]`

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, helpText)
		os.Exit(1)
	}

	dialect, err := db.ParseDialect(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n%s\n", err, helpText)
		os.Exit(1)
	}

	sqlDB, err := db.Open(dialect, os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	fmt.Printf("migrating %s database (build %s)\n", dialect, internal.BuildRevision)

	migrations, err := db.Migrate(ctx, sqlDB, dialect, assets.MigrationFS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	for _, m := range migrations {
		fmt.Printf("%d: %s\n", m.Version, m.Source)
	}
}
