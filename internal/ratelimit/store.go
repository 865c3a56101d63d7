package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store is the counter backend for the limiter. Increment adds one hit for
// the key within a fixed window and returns the running count and the
// window's reset time; the first hit of a window starts it.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

type memoryRecord struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local Store. Counters reset on restart and are
// not shared across instances, which is acceptable for single-instance
// deployments.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*memoryRecord

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMemoryStore creates an in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*memoryRecord),
		stop:    make(chan struct{}),
	}
}

// Increment implements Store.
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || !now.Before(rec.resetAt) {
		rec = &memoryRecord{count: 0, resetAt: now.Add(window)}
		s.records[key] = rec
	}
	rec.count++

	return rec.count, rec.resetAt, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// StartSweeper purges expired windows on a fixed interval so memory stays
// bounded. Stop terminates the sweeper.
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(time.Now())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the background sweeper. Safe to call more than once.
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range s.records {
		if !now.Before(rec.resetAt) {
			delete(s.records, key)
		}
	}
}
