package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wellvision/wellvision/internal/platform/db"
	"github.com/wellvision/wellvision/internal/shared"
)

// Repository aggregates invoices straight from Postgres.
type Repository interface {
	Daily(ctx context.Context, from, to time.Time) ([]Row, error)
	Monthly(ctx context.Context, year int) ([]Row, error)
	Overall(ctx context.Context) (Row, error)
}

type repository struct {
	db db.DBTX
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const aggregateColumns = `COUNT(*),
	COALESCE(SUM(amount::numeric), 0)::text,
	COALESCE(SUM(advance::numeric), 0)::text,
	COALESCE(SUM(balance::numeric), 0)::text`

// Daily groups invoices dated in [from, to] inclusive by calendar day.
func (r *repository) Daily(ctx context.Context, from, to time.Time) ([]Row, error) {
	rows, err := r.db.Query(ctx, `SELECT date_trunc('day', date AT TIME ZONE 'UTC') AS period, `+aggregateColumns+`
		FROM invoices
		WHERE date >= $1 AND date < $2
		GROUP BY period ORDER BY period`, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, db.StorageError("daily dashboard", err)
	}
	return collect(rows, "daily dashboard")
}

func (r *repository) Monthly(ctx context.Context, year int) ([]Row, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := r.db.Query(ctx, `SELECT date_trunc('month', date AT TIME ZONE 'UTC') AS period, `+aggregateColumns+`
		FROM invoices
		WHERE date >= $1 AND date < $2
		GROUP BY period ORDER BY period`, start, start.AddDate(1, 0, 0))
	if err != nil {
		return nil, db.StorageError("monthly dashboard", err)
	}
	return collect(rows, "monthly dashboard")
}

func (r *repository) Overall(ctx context.Context) (Row, error) {
	var (
		row                      Row
		amount, advance, balance string
	)
	err := r.db.QueryRow(ctx, `SELECT `+aggregateColumns+` FROM invoices`).
		Scan(&row.Invoices, &amount, &advance, &balance)
	if err != nil {
		return Row{}, db.StorageError("overall dashboard", err)
	}
	if err := parseSums(&row, amount, advance, balance); err != nil {
		return Row{}, err
	}
	return row, nil
}

func collect(rows pgx.Rows, op string) ([]Row, error) {
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var (
			row                      Row
			amount, advance, balance string
		)
		if err := rows.Scan(&row.Period, &row.Invoices, &amount, &advance, &balance); err != nil {
			return nil, db.StorageError(op, err)
		}
		if err := parseSums(&row, amount, advance, balance); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, db.StorageError(op, err)
	}
	return out, nil
}

func parseSums(row *Row, amount, advance, balance string) error {
	var err error
	if row.Amount, err = decimal.NewFromString(amount); err != nil {
		return fmt.Errorf("%w: parse amount sum %q: %v", shared.ErrCorruptRecord, amount, err)
	}
	if row.Advance, err = decimal.NewFromString(advance); err != nil {
		return fmt.Errorf("%w: parse advance sum %q: %v", shared.ErrCorruptRecord, advance, err)
	}
	if row.Balance, err = decimal.NewFromString(balance); err != nil {
		return fmt.Errorf("%w: parse balance sum %q: %v", shared.ErrCorruptRecord, balance, err)
	}
	return nil
}
