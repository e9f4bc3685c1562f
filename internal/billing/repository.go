package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wellvision/wellvision/internal/platform/db"
	"github.com/wellvision/wellvision/internal/shared"
)

// Repository persists invoices.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, inv Invoice) (*Invoice, error)
	Get(ctx context.Context, id int64) (*Invoice, error)
	// GetForUpdate locks the row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]Invoice, int, error)
	Update(ctx context.Context, inv Invoice) (*Invoice, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db   db.DBTX
	pool *pgxpool.Pool
}

// NewRepository returns a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const invoiceColumns = `id, order_no, date, bill_no, name, tel, address, items, amount, advance, balance, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var (
		inv   Invoice
		items []byte
	)
	if err := row.Scan(
		&inv.ID, &inv.OrderNo, &inv.Date, &inv.BillNo, &inv.Name, &inv.Tel, &inv.Address,
		&items, &inv.Amount, &inv.Advance, &inv.Balance, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("%w: decode items of invoice %d: %v", shared.ErrCorruptRecord, inv.ID, err)
	}
	if inv.Items == nil {
		inv.Items = []LineItem{}
	}
	return &inv, nil
}

func (r *repository) Create(ctx context.Context, inv Invoice) (*Invoice, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	row := r.db.QueryRow(ctx, `INSERT INTO invoices
		(order_no, date, bill_no, name, tel, address, items, amount, advance, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+invoiceColumns,
		inv.OrderNo, inv.Date, inv.BillNo, inv.Name, inv.Tel, inv.Address,
		items, inv.Amount, inv.Advance, inv.Balance,
	)
	created, err := scanInvoice(row)
	if err != nil {
		return nil, db.StorageError("insert invoice", err)
	}
	return created, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, db.StorageError(fmt.Sprintf("get invoice %d", id), err)
	}
	return inv, nil
}

func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, db.StorageError(fmt.Sprintf("lock invoice %d", id), err)
	}
	return inv, nil
}

var sortColumns = map[SortField]string{
	SortByDate:   "date",
	SortByBillNo: "bill_no",
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Invoice, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(bill_no ILIKE $%[1]d OR name ILIKE $%[1]d OR tel ILIKE $%[1]d OR order_no ILIKE $%[1]d)", argPos))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argPos++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("date < $%d", argPos))
		args = append(args, *filter.To)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM invoices "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, db.StorageError("count invoices", err)
	}

	column, ok := sortColumns[filter.Sort]
	if !ok {
		column = sortColumns[SortByDate]
	}
	direction := "DESC"
	if filter.Asc {
		direction = "ASC"
	}
	query := fmt.Sprintf("SELECT %s FROM invoices %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d",
		invoiceColumns, whereClause, column, direction, direction, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, db.StorageError("list invoices", err)
	}
	defer rows.Close()

	invoices := make([]Invoice, 0, filter.Limit)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, db.StorageError("scan invoice", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.StorageError("list invoices", err)
	}
	return invoices, total, nil
}

func (r *repository) Update(ctx context.Context, inv Invoice) (*Invoice, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	row := r.db.QueryRow(ctx, `UPDATE invoices SET
		order_no = $2, date = $3, name = $4, tel = $5, address = $6,
		items = $7, amount = $8, advance = $9, balance = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING `+invoiceColumns,
		inv.ID, inv.OrderNo, inv.Date, inv.Name, inv.Tel, inv.Address,
		items, inv.Amount, inv.Advance, inv.Balance,
	)
	updated, err := scanInvoice(row)
	if err != nil {
		return nil, db.StorageError(fmt.Sprintf("update invoice %d", inv.ID), err)
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return db.StorageError(fmt.Sprintf("delete invoice %d", id), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %d", shared.ErrNotFound, id)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
