package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellvision/wellvision/internal/shared"
)

type fakeRepo struct {
	mu           sync.Mutex
	daily        []Row
	monthly      []Row
	overall      Row
	err          error
	dailyCalls   int
	monthlyCalls int
	overallCalls int
}

func (f *fakeRepo) Daily(_ context.Context, from, to time.Time) ([]Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dailyCalls++
	var out []Row
	for _, r := range f.daily {
		if !r.Period.Before(from) && !r.Period.After(to) {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeRepo) Monthly(_ context.Context, year int) ([]Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.monthlyCalls++
	return f.monthly, f.err
}

func (f *fakeRepo) Overall(context.Context) (Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overallCalls++
	return f.overall, f.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func row(period time.Time, n int, amount, advance string) Row {
	a := decimal.RequireFromString(amount)
	adv := decimal.RequireFromString(advance)
	return Row{Period: period, Invoices: n, Amount: a, Advance: adv, Balance: a.Sub(adv)}
}

func newFixture(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	cache, _ := newTestCache(t)
	repo := &fakeRepo{
		daily: []Row{
			row(day(2024, 5, 2), 2, "240.00", "100"),
			row(day(2024, 5, 4), 1, "120.50", "50"),
		},
		monthly: []Row{row(day(2024, 5, 1), 3, "360.50", "150")},
		overall: row(time.Time{}, 3, "360.50", "150"),
	}
	svc := NewService(repo, cache, discardLogger())
	svc.now = func() time.Time { return time.Date(2024, 5, 4, 15, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestDailyZeroFills(t *testing.T) {
	svc, _ := newFixture(t)
	buckets, err := svc.Daily(context.Background(), day(2024, 5, 1), day(2024, 5, 4))
	require.NoError(t, err)
	require.Len(t, buckets, 4)

	assert.Equal(t, "2024-05-01", buckets[0].Date)
	assert.Equal(t, 0, buckets[0].Invoices)
	assert.Equal(t, "0.00", buckets[0].Amount)
	assert.Equal(t, 2, buckets[1].Invoices)
	assert.Equal(t, "240.00", buckets[1].Amount)
	assert.Equal(t, "140.00", buckets[1].Balance)
	assert.Equal(t, "0.00", buckets[2].Balance)
	assert.Equal(t, "120.50", buckets[3].Amount)
}

func TestDailyRejectsBadRange(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Daily(context.Background(), day(2024, 5, 4), day(2024, 5, 1))
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Daily(context.Background(), day(2022, 1, 1), day(2024, 1, 1))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestMonthlyHasTwelveBuckets(t *testing.T) {
	svc, _ := newFixture(t)
	buckets, err := svc.Monthly(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, buckets, 12)
	assert.Equal(t, "2024-01", buckets[0].Month)
	assert.Equal(t, "2024-05", buckets[4].Month)
	assert.Equal(t, 3, buckets[4].Invoices)
	assert.Equal(t, "210.50", buckets[4].Balance)
	assert.Equal(t, "0.00", buckets[11].Amount)

	_, err = svc.Monthly(context.Background(), 12)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCachedUntilBumped(t *testing.T) {
	svc, repo := newFixture(t)
	ctx := context.Background()

	_, err := svc.Monthly(ctx, 2024)
	require.NoError(t, err)
	_, err = svc.Monthly(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.monthlyCalls)

	require.NoError(t, svc.Bump(ctx))
	_, err = svc.Monthly(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.monthlyCalls)
}

func TestSummaryLoadsAllViews(t *testing.T) {
	svc, repo := newFixture(t)
	summary, err := svc.Summary(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "2024-05-04", summary.AsOf)
	assert.Len(t, summary.Daily, SummaryDays)
	assert.Equal(t, "2024-04-05", summary.Daily[0].Date)
	assert.Equal(t, "2024-05-04", summary.Daily[SummaryDays-1].Date)
	assert.Len(t, summary.Monthly, 12)
	assert.Equal(t, 3, summary.Overall.Invoices)
	assert.Equal(t, "210.50", summary.Overall.Balance)

	_, err = svc.Summary(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.overallCalls)
}

func TestSummaryPropagatesRepositoryError(t *testing.T) {
	svc, repo := newFixture(t)
	repo.err = shared.ErrStorageUnavailable
	_, err := svc.Summary(context.Background(), day(2024, 5, 4))
	require.ErrorIs(t, err, shared.ErrStorageUnavailable)
}
