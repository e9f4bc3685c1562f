// Package sequence issues monotonic per-name counter values and renders them as
// bill numbers.
package sequence

import (
	"context"
	"fmt"
	"strings"

	"github.com/wellvision/wellvision/internal/shared"
)

// BillNo is the counter name used for invoice bill numbers.
const BillNo = "billNo"

// Store is a persisted set of named counters.
//
// NextValue atomically creates the counter at zero when missing, adds one and
// returns the new value. Values returned for a name are pairwise distinct.
// Peek reports the value the next NextValue would return without reserving it.
type Store interface {
	NextValue(ctx context.Context, name string) (int64, error)
	Peek(ctx context.Context, name string) (int64, error)
}

// Recorder observes issued values. Satisfied by *observability.Metrics.
type Recorder interface {
	SequenceIssued(name string)
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: sequence name is required", shared.ErrInvalidArgument)
	}
	return nil
}

type instrumented struct {
	Store
	rec Recorder
}

// WithRecorder wraps store so every successfully issued value is reported to rec.
func WithRecorder(store Store, rec Recorder) Store {
	if rec == nil {
		return store
	}
	return &instrumented{Store: store, rec: rec}
}

func (s *instrumented) NextValue(ctx context.Context, name string) (int64, error) {
	v, err := s.Store.NextValue(ctx, name)
	if err != nil {
		return 0, err
	}
	s.rec.SequenceIssued(name)
	return v, nil
}
