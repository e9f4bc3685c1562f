package billing

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wellvision/wellvision/internal/shared"
)

type memoryRepo struct {
	mu       sync.Mutex
	nextID   int64
	invoices map[int64]Invoice
	err      error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, invoices: make(map[int64]Invoice)}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) Create(_ context.Context, inv Invoice) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, existing := range m.invoices {
		if existing.BillNo == inv.BillNo {
			return nil, fmt.Errorf("%w: insert invoice: invoices_bill_no_key", shared.ErrDuplicateKey)
		}
	}
	inv.ID = m.nextID
	m.nextID++
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	m.invoices[inv.ID] = inv
	return &inv, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	inv, ok := m.invoices[id]
	if !ok {
		return nil, fmt.Errorf("%w: invoice %d", shared.ErrNotFound, id)
	}
	return &inv, nil
}

func (m *memoryRepo) GetForUpdate(ctx context.Context, id int64) (*Invoice, error) {
	return m.Get(ctx, id)
}

func (m *memoryRepo) List(_ context.Context, filter ListFilter) ([]Invoice, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []Invoice
	needle := strings.ToLower(filter.Search)
	for _, inv := range m.invoices {
		if needle != "" {
			hay := strings.ToLower(inv.BillNo + " " + inv.Name + " " + inv.Tel + " " + inv.OrderNo)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if filter.From != nil && inv.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !inv.Date.Before(*filter.To) {
			continue
		}
		matched = append(matched, inv)
	}
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		if filter.Sort == SortByBillNo {
			less = matched[i].BillNo < matched[j].BillNo
		} else {
			less = matched[i].Date.Before(matched[j].Date)
		}
		if filter.Asc {
			return less
		}
		return !less
	})
	total := len(matched)
	if filter.Offset >= total {
		return []Invoice{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (m *memoryRepo) Update(_ context.Context, inv Invoice) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.invoices[inv.ID]; !ok {
		return nil, fmt.Errorf("%w: invoice %d", shared.ErrNotFound, inv.ID)
	}
	inv.UpdatedAt = time.Now()
	m.invoices[inv.ID] = inv
	return &inv, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.invoices[id]; !ok {
		return fmt.Errorf("%w: invoice %d", shared.ErrNotFound, id)
	}
	delete(m.invoices, id)
	return nil
}

type eventLog struct {
	mu     sync.Mutex
	events []string
	bumps  int
	err    error
}

func (e *eventLog) InvoiceEvent(event string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *eventLog) Bump(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bumps++
	return e.err
}

func (e *eventLog) count(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev == event {
			n++
		}
	}
	return n
}

func contextWithRoute(r *http.Request, rc *chi.Context) context.Context {
	return context.WithValue(r.Context(), chi.RouteCtxKey, rc)
}
