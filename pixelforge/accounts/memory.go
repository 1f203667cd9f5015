package accounts

import (
	"context"
	"sync"
	"time"
)

type memoryAccount struct {
	credits             int
	totalCreditsEarned  int
	lastDailyBonusClaim *time.Time
}

// Memory stores account credit state in memory for tests and local
// development. one mutex serializes all mutations, which gives the same
// atomicity the postgres repository gets from conditional UPDATEs.
type Memory struct {
	mu   sync.Mutex
	accs map[string]*memoryAccount
}

// creates an in-memory account store
func NewMemory() *Memory {
	return &Memory{accs: make(map[string]*memoryAccount)}
}

// creates an account with a starting balance; used by tests and by the
// signup path in local development
func (m *Memory) CreateAccount(accountID string, credits int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accs[accountID] = &memoryAccount{
		credits:            credits,
		totalCreditsEarned: credits,
	}
}

func (m *Memory) GetBalance(_ context.Context, accountID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accs[accountID]
	if !ok {
		return 0, ErrNotFound
	}

	return acc.credits, nil
}

func (m *Memory) AdjustBalance(_ context.Context, accountID string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accs[accountID]
	if !ok {
		return 0, ErrNotFound
	}

	if acc.credits+delta < 0 {
		return 0, ErrInsufficientBalance
	}

	acc.credits += delta
	if delta > 0 {
		acc.totalCreditsEarned += delta
	}

	return acc.credits, nil
}

func (m *Memory) GetLastDailyBonusClaim(_ context.Context, accountID string) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accs[accountID]
	if !ok {
		return nil, ErrNotFound
	}

	return acc.lastDailyBonusClaim, nil
}

func (m *Memory) MarkDailyBonusClaimed(_ context.Context, accountID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accs[accountID]
	if !ok {
		return ErrNotFound
	}

	acc.lastDailyBonusClaim = &at
	return nil
}

func (m *Memory) ClearDailyBonusClaim(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accs[accountID]
	if !ok {
		return ErrNotFound
	}

	acc.lastDailyBonusClaim = nil
	return nil
}

func (m *Memory) ClaimDailyBonus(_ context.Context, accountID string, at, dayStart time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accs[accountID]
	if !ok {
		return false, ErrNotFound
	}

	if acc.lastDailyBonusClaim != nil && !acc.lastDailyBonusClaim.Before(dayStart) {
		return false, nil
	}

	acc.lastDailyBonusClaim = &at
	return true, nil
}

// returns the audit aggregate of all credits ever granted, for tests
func (m *Memory) TotalCreditsEarned(accountID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if acc, ok := m.accs[accountID]; ok {
		return acc.totalCreditsEarned
	}

	return 0
}
