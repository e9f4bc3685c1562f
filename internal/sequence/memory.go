package sequence

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for tests and single-process development.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]int64
	// Err, when set, is returned by every call instead of touching the counters.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int64)}
}

// Seed sets the current value of name so the next NextValue returns value+1.
func (s *MemoryStore) Seed(name string, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
}

func (s *MemoryStore) NextValue(_ context.Context, name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	s.values[name]++
	return s.values[name], nil
}

func (s *MemoryStore) Peek(_ context.Context, name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return s.values[name] + 1, nil
}
