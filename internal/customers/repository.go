package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wellvision/wellvision/internal/platform/db"
	"github.com/wellvision/wellvision/internal/shared"
)

type Repository interface {
	Create(ctx context.Context, c Customer) (*Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, filter ListFilter) ([]Customer, int, error)
	Update(ctx context.Context, c Customer) (*Customer, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db db.DBTX
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const customerColumns = `id, name, tel, tel_e164, address, email, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Tel, &c.TelE164, &c.Address, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c Customer) (*Customer, error) {
	created, err := scanCustomer(r.db.QueryRow(ctx, `INSERT INTO customers
		(name, tel, tel_e164, address, email, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerColumns,
		c.Name, c.Tel, c.TelE164, c.Address, c.Email, c.Notes))
	if err != nil {
		return nil, db.StorageError("insert customer", err)
	}
	return created, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		return nil, db.StorageError(fmt.Sprintf("get customer %d", id), err)
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Customer, int, error) {
	where := ""
	var args []any
	if filter.Search != "" {
		where = "WHERE name ILIKE $1 OR tel ILIKE $1 OR tel_e164 ILIKE $1"
		args = append(args, "%"+strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(filter.Search)+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM customers "+where, args...).Scan(&total); err != nil {
		return nil, 0, db.StorageError("count customers", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT %s FROM customers %s ORDER BY name, id LIMIT $%d OFFSET $%d", customerColumns, where, n+1, n+2)
	rows, err := r.db.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, db.StorageError("list customers", err)
	}
	defer rows.Close()

	out := make([]Customer, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, db.StorageError("scan customer", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.StorageError("list customers", err)
	}
	return out, total, nil
}

func (r *repository) Update(ctx context.Context, c Customer) (*Customer, error) {
	updated, err := scanCustomer(r.db.QueryRow(ctx, `UPDATE customers SET
		name = $2, tel = $3, tel_e164 = $4, address = $5, email = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+customerColumns,
		c.ID, c.Name, c.Tel, c.TelE164, c.Address, c.Email, c.Notes))
	if err != nil {
		return nil, db.StorageError(fmt.Sprintf("update customer %d", c.ID), err)
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return db.StorageError(fmt.Sprintf("delete customer %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %d", shared.ErrNotFound, id)
	}
	return nil
}
