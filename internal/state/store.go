// Package state holds the application state as a sequence of immutable
// snapshots. Every mutation produces a new snapshot with a higher
// generation; readers never observe a snapshot changing under them.
package state

import (
	"sync"
	"time"

	"cetaksoal/domain/core"
	"cetaksoal/domain/exam"
)

// Snapshot is one immutable view of the current document
type Snapshot struct {
	Generation uint64          `json:"generation"`
	ImportID   core.ImportID   `json:"importId,omitempty"`
	SourceName string          `json:"sourceName,omitempty"`
	ImportedAt time.Time       `json:"importedAt,omitempty"`
	Questions  []exam.Question `json:"questions"`
	Header     exam.HeaderInfo `json:"header"`
	Settings   exam.Settings   `json:"settings"`
}

// HasQuestions reports whether a question set has been imported
func (s Snapshot) HasQuestions() bool {
	return len(s.Questions) > 0
}

// Store owns the current snapshot
type Store struct {
	mu          sync.RWMutex
	current     Snapshot
	subscribers []func(Snapshot)
}

// NewStore creates a store with no questions and the given document defaults
func NewStore(header exam.HeaderInfo, settings exam.Settings) *Store {
	return &Store{
		current: Snapshot{
			Questions: []exam.Question{},
			Header:    header,
			Settings:  settings.Normalize(),
		},
	}
}

// Snapshot returns the current snapshot
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to be called after every mutation. Callbacks run
// synchronously on the mutating goroutine and must not call back into the
// store's mutators.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Update derives the next snapshot from the current one. fn receives a
// copy; the question slice it returns must not be shared with callers.
func (s *Store) Update(fn func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	next := fn(s.current)
	next.Generation = s.current.Generation + 1
	next.Settings = next.Settings.Normalize()
	if next.Questions == nil {
		next.Questions = []exam.Question{}
	}
	s.current = next
	subscribers := make([]func(Snapshot), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub(next)
	}
	return next
}

// ReplaceQuestions swaps in a freshly imported question set
func (s *Store) ReplaceQuestions(id core.ImportID, source string, questions []exam.Question) Snapshot {
	cloned := append([]exam.Question(nil), questions...)
	return s.Update(func(cur Snapshot) Snapshot {
		cur.ImportID = id
		cur.SourceName = source
		cur.ImportedAt = time.Now()
		cur.Questions = cloned
		return cur
	})
}

// SetHeader replaces the letterhead text
func (s *Store) SetHeader(header exam.HeaderInfo) Snapshot {
	return s.Update(func(cur Snapshot) Snapshot {
		cur.Header = header
		return cur
	})
}

// SetSettings replaces the print settings
func (s *Store) SetSettings(settings exam.Settings) Snapshot {
	return s.Update(func(cur Snapshot) Snapshot {
		cur.Settings = settings
		return cur
	})
}
