package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellvision/wellvision/internal/shared"
)

type fakeRow struct {
	value int64
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.value
	return nil
}

type fakeQuerier struct {
	row   fakeRow
	sql   string
	args  []any
	calls int
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	q.sql = sql
	q.args = args
	return q.row
}

func TestPostgresStoreNextValueUsesSingleUpsert(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{value: 5}}
	store := NewPostgresStore(q)

	v, err := store.NextValue(context.Background(), BillNo)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
	assert.Equal(t, 1, q.calls)
	assert.Contains(t, q.sql, "ON CONFLICT (name) DO UPDATE")
	assert.Contains(t, q.sql, "RETURNING value")
	assert.Equal(t, []any{BillNo}, q.args)
}

func TestPostgresStoreNextValueStorageFailure(t *testing.T) {
	store := NewPostgresStore(&fakeQuerier{row: fakeRow{err: errors.New("connection reset")}})
	_, err := store.NextValue(context.Background(), BillNo)
	require.ErrorIs(t, err, shared.ErrStorageUnavailable)
}

func TestPostgresStorePeek(t *testing.T) {
	store := NewPostgresStore(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})
	v, err := store.Peek(context.Background(), BillNo)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	store = NewPostgresStore(&fakeQuerier{row: fakeRow{value: 9}})
	v, err = store.Peek(context.Background(), BillNo)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
}

func TestPostgresStoreRejectsEmptyName(t *testing.T) {
	q := &fakeQuerier{}
	store := NewPostgresStore(q)
	_, err := store.NextValue(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrInvalidArgument)
	assert.Zero(t, q.calls)
}
