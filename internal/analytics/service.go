package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/wellvision/wellvision/internal/shared"
)

// Service serves dashboard views through the versioned cache.
type Service struct {
	repo   Repository
	cache  *Cache
	group  singleflight.Group
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// Bump invalidates cached views. Satisfies billing.Invalidator.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Daily returns one bucket per calendar day in [from, to], zero-filled.
func (s *Service) Daily(ctx context.Context, from, to time.Time) ([]DailyBucket, error) {
	from, to = truncateDay(from), truncateDay(to)
	if to.Before(from) {
		return nil, shared.NewValidationError("to", "must not be before from")
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > MaxDailyRange {
		return nil, shared.NewValidationError("to", fmt.Sprintf("range must be at most %d days", MaxDailyRange))
	}
	var out []DailyBucket
	err := s.cached(ctx, keyDaily(from, to), &out, func(ctx context.Context) (any, error) {
		return s.loadDaily(ctx, from, to)
	})
	return out, err
}

// Monthly returns twelve buckets for year, zero-filled.
func (s *Service) Monthly(ctx context.Context, year int) ([]MonthlyBucket, error) {
	if year < 1970 || year > 9999 {
		return nil, shared.NewValidationError("year", "must be between 1970 and 9999")
	}
	var out []MonthlyBucket
	err := s.cached(ctx, keyMonthly(year), &out, func(ctx context.Context) (any, error) {
		return s.loadMonthly(ctx, year)
	})
	return out, err
}

// Summary loads the trailing window, the year to date and the overall totals
// concurrently.
func (s *Service) Summary(ctx context.Context, asOf time.Time) (Summary, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	asOf = truncateDay(asOf)
	var out Summary
	err := s.cached(ctx, keySummary(asOf), &out, func(ctx context.Context) (any, error) {
		return s.loadSummary(ctx, asOf)
	})
	return out, err
}

func (s *Service) loadSummary(ctx context.Context, asOf time.Time) (Summary, error) {
	summary := Summary{AsOf: asOf.Format(dayLayout)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		daily, err := s.loadDaily(gctx, asOf.AddDate(0, 0, -(SummaryDays-1)), asOf)
		summary.Daily = daily
		return err
	})
	g.Go(func() error {
		monthly, err := s.loadMonthly(gctx, asOf.Year())
		summary.Monthly = monthly
		return err
	})
	g.Go(func() error {
		overall, err := s.repo.Overall(gctx)
		summary.Overall = overall.totals()
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("load dashboard summary: %w", err)
	}
	return summary, nil
}

func (s *Service) loadDaily(ctx context.Context, from, to time.Time) ([]DailyBucket, error) {
	rows, err := s.repo.Daily(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]Row, len(rows))
	for _, r := range rows {
		byDay[r.Period.Format(dayLayout)] = r
	}
	var out []DailyBucket
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		totals := zeroTotals()
		if r, ok := byDay[key]; ok {
			totals = r.totals()
		}
		out = append(out, DailyBucket{Date: key, Totals: totals})
	}
	return out, nil
}

func (s *Service) loadMonthly(ctx context.Context, year int) ([]MonthlyBucket, error) {
	rows, err := s.repo.Monthly(ctx, year)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]Row, len(rows))
	for _, r := range rows {
		byMonth[r.Period.Format(monthLayout)] = r
	}
	out := make([]MonthlyBucket, 0, 12)
	for m := time.January; m <= time.December; m++ {
		key := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout)
		totals := zeroTotals()
		if r, ok := byMonth[key]; ok {
			totals = r.totals()
		}
		out = append(out, MonthlyBucket{Month: key, Totals: totals})
	}
	return out, nil
}

// cached resolves the versioned key and collapses concurrent fills of the same
// key into one loader call.
func (s *Service) cached(ctx context.Context, base string, dest any, loader func(context.Context) (any, error)) error {
	key, err := s.cache.BuildKey(ctx, base)
	if err != nil {
		s.logger.WarnContext(ctx, "dashboard cache version unavailable", slog.Any("error", err))
		key = ""
	}
	flightKey := key
	if flightKey == "" {
		flightKey = base
	}
	raw, err, _ := s.group.Do(flightKey, func() (any, error) {
		var payload json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &payload, loader); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.(json.RawMessage), dest)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
