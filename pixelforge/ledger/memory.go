package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory stores ledger entries in memory. it backs tests and local
// development; the mutex gives it the same per-actor serialization the
// postgres repository gets from advisory locks.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
	nextID  int
	now     func() time.Time
}

// creates an in-memory ledger store
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// creates an in-memory ledger store with an injected time source, for tests
func NewMemoryWithNow(now func() time.Time) *Memory {
	return &Memory{now: now}
}

func (m *Memory) Append(_ context.Context, entry *Entry) (*Entry, error) {
	if err := Validate(entry); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.appendLocked(entry), nil
}

func (m *Memory) appendLocked(entry *Entry) *Entry {
	m.nextID++

	stored := *entry
	stored.ID = fmt.Sprintf("mem-%06d", m.nextID)
	stored.CreatedAt = m.now()

	m.entries = append(m.entries, stored)
	return &stored
}

func (m *Memory) CountByAnonSince(_ context.Context, anonID string, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.countAnonLocked(anonID, since), nil
}

func (m *Memory) countAnonLocked(anonID string, since time.Time) int {
	count := 0

	for _, e := range m.entries {
		if e.Kind == KindAnonymousAttempt && e.AnonID == anonID && !e.CreatedAt.Before(since) {
			count++
		}
	}

	return count
}

func (m *Memory) AppendAttemptIfUnder(
	_ context.Context,
	anonID, reason string,
	since time.Time,
	limit int,
) (bool, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.countAnonLocked(anonID, since)
	if used >= limit {
		return false, used, nil
	}

	m.appendLocked(&Entry{
		AnonID: anonID,
		Kind:   KindAnonymousAttempt,
		Reason: reason,
	})

	return true, used, nil
}

func (m *Memory) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := []Entry{}

	for _, e := range m.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}

	// newest first; insertion order breaks created_at ties
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if offset > 0 {
		if offset >= len(entries) {
			return []Entry{}, nil
		}
		entries = entries[offset:]
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

func (m *Memory) CountByAccount(_ context.Context, accountID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0

	for _, e := range m.entries {
		if e.AccountID == accountID {
			count++
		}
	}

	return count, nil
}

func (m *Memory) SumByAccount(_ context.Context, accountID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sum := 0

	for _, e := range m.entries {
		if e.AccountID == accountID {
			sum += e.Amount
		}
	}

	return sum, nil
}

// returns the total number of entries, for tests
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}
