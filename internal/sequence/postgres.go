package sequence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/wellvision/wellvision/internal/platform/db"
)

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps counters in the sequence_counters table. The upsert takes
// the row lock, so concurrent callers serialise inside Postgres.
type PostgresStore struct {
	db queryRower
}

// NewPostgresStore constructs a store over a pool or transaction.
func NewPostgresStore(q queryRower) *PostgresStore {
	return &PostgresStore{db: q}
}

const nextValueSQL = `INSERT INTO sequence_counters (name, value)
VALUES ($1, 1)
ON CONFLICT (name) DO UPDATE
SET value = sequence_counters.value + 1, updated_at = NOW()
RETURNING value`

func (s *PostgresStore) NextValue(ctx context.Context, name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	var value int64
	if err := s.db.QueryRow(ctx, nextValueSQL, name).Scan(&value); err != nil {
		return 0, db.StorageError("sequence next value", err)
	}
	return value, nil
}

func (s *PostgresStore) Peek(ctx context.Context, name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	var value int64
	err := s.db.QueryRow(ctx, `SELECT value FROM sequence_counters WHERE name = $1`, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, db.StorageError("sequence peek", err)
	}
	return value + 1, nil
}
