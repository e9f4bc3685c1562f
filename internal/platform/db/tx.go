package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Beginner opens transactions. Satisfied by *pgxpool.Pool.
type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// WithTx runs fn inside a READ COMMITTED transaction. Row locks taken by fn
// (SELECT ... FOR UPDATE) serialise concurrent writers to the same row.
// The transaction is rolled back whenever fn returns an error.
func WithTx(ctx context.Context, pool Beginner, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return StorageError("begin tx", err)
	}

	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return StorageError("commit tx", err)
	}

	return nil
}
