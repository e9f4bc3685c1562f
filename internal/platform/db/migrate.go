package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every embedded migration in file name order inside a single
// transaction. Statements are idempotent, so running it on every boot is safe.
func Migrate(ctx context.Context, pool Beginner) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("platform/db: list migrations: %w", err)
	}
	sort.Strings(names)

	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		for _, name := range names {
			body, err := migrationFiles.ReadFile(name)
			if err != nil {
				return fmt.Errorf("platform/db: read %s: %w", name, err)
			}
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return fmt.Errorf("platform/db: apply %s: %w", name, err)
			}
		}
		return nil
	})
}
