package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// Migration is a migration that was applied.
type Migration struct {
	Version int64
	Source  string
}

// Migrate applies all pending migrations for dialect d. The migrations are
// read from the directory in fsys named after the dialect.
func Migrate(ctx context.Context, sqlDB *sql.DB, d Dialect, fsys fs.FS) ([]Migration, error) {
	dir, err := fs.Sub(fsys, string(d))
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations for %s: %w", d, err)
	}

	provider, err := goose.NewProvider(goose.Dialect(d), sqlDB, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	ran := make([]Migration, 0, len(results))
	for _, r := range results {
		ran = append(ran, Migration{
			Version: r.Source.Version,
			Source:  r.Source.Path,
		})
	}

	return ran, nil
}
