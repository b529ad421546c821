// Package joblog persists the outcome of background jobs.
package joblog

import (
	"context"
	"sync"

	"github.com/yanqian/fitness-wizard/internal/domain/bonus"
)

// MemoryLog keeps the most recent records in memory. Useful for tests and local dev.
type MemoryLog struct {
	mu      sync.RWMutex
	records []bonus.JobRecord
	limit   int
}

// NewMemoryLog keeps at most limit records; limit <= 0 keeps 1000.
func NewMemoryLog(limit int) *MemoryLog {
	if limit <= 0 {
		limit = 1000
	}
	return &MemoryLog{limit: limit}
}

// Record appends rec, dropping the oldest entry when full.
func (l *MemoryLog) Record(_ context.Context, rec bonus.JobRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) >= l.limit {
		l.records = append(l.records[:0], l.records[1:]...)
	}
	l.records = append(l.records, rec)
	return nil
}

// Recent returns up to n records, newest first.
func (l *MemoryLog) Recent(_ context.Context, n int) ([]bonus.JobRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]bonus.JobRecord, 0, n)
	for i := len(l.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

var _ bonus.JobLog = (*MemoryLog)(nil)
