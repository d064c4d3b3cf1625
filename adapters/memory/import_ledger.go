package memory

import (
	"context"
	"sync"

	"cetaksoal/domain/exam"
	"cetaksoal/ports"
)

// importLedger keeps the most recent import events in a bounded ring
type importLedger struct {
	mu       sync.RWMutex
	events   []exam.ImportEvent
	capacity int
}

// NewImportLedger creates an in-process ledger holding up to capacity events
func NewImportLedger(capacity int) ports.ImportLedger {
	if capacity <= 0 {
		capacity = 50
	}
	return &importLedger{capacity: capacity}
}

// Record appends an event, evicting the oldest once full
func (l *importLedger) Record(ctx context.Context, event exam.ImportEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)
	if over := len(l.events) - l.capacity; over > 0 {
		l.events = append(l.events[:0:0], l.events[over:]...)
	}
	return nil
}

// Recent returns up to limit events, newest first
func (l *importLedger) Recent(ctx context.Context, limit int) ([]exam.ImportEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || limit > len(l.events) {
		limit = len(l.events)
	}
	out := make([]exam.ImportEvent, 0, limit)
	for i := len(l.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.events[i])
	}
	return out, nil
}
