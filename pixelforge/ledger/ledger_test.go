package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidate_AccountKinds(t *testing.T) {
	valid := &Entry{
		AccountID:    "acct-1",
		Kind:         KindGenerationSpend,
		Amount:       -5,
		BalanceAfter: intPtr(45),
		Reason:       "image generation",
	}
	assert.NoError(t, Validate(valid))

	missingAccount := &Entry{
		Kind:         KindGenerationSpend,
		Amount:       -5,
		BalanceAfter: intPtr(45),
	}
	assert.ErrorIs(t, Validate(missingAccount), ErrInvalidEntry)

	missingBalance := &Entry{
		AccountID: "acct-1",
		Kind:      KindDailyBonus,
		Amount:    30,
	}
	assert.ErrorIs(t, Validate(missingBalance), ErrInvalidEntry)

	bothIdentifiers := &Entry{
		AccountID:    "acct-1",
		AnonID:       "203.0.113.5",
		Kind:         KindSignupBonus,
		Amount:       50,
		BalanceAfter: intPtr(50),
	}
	assert.ErrorIs(t, Validate(bothIdentifiers), ErrInvalidEntry)
}

func TestValidate_AnonymousAttempt(t *testing.T) {
	valid := &Entry{
		AnonID: "203.0.113.5",
		Kind:   KindAnonymousAttempt,
		Reason: "anonymous generation",
	}
	assert.NoError(t, Validate(valid))

	cases := []struct {
		name  string
		entry *Entry
	}{
		{"missing anon id", &Entry{Kind: KindAnonymousAttempt}},
		{"carries account id", &Entry{AnonID: "1.2.3.4", AccountID: "acct-1", Kind: KindAnonymousAttempt}},
		{"carries balance", &Entry{AnonID: "1.2.3.4", Kind: KindAnonymousAttempt, BalanceAfter: intPtr(10)}},
		{"nonzero amount", &Entry{AnonID: "1.2.3.4", Kind: KindAnonymousAttempt, Amount: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(tc.entry), ErrInvalidEntry)
		})
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	entry := &Entry{AccountID: "acct-1", Kind: Kind("refund"), BalanceAfter: intPtr(0)}
	assert.ErrorIs(t, Validate(entry), ErrInvalidEntry)

	assert.ErrorIs(t, Validate(nil), ErrInvalidEntry)
}

func TestMemory_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for i, balance := range []int{45, 40, 35} {
		_, err := store.Append(ctx, &Entry{
			AccountID:    "acct-1",
			Kind:         KindGenerationSpend,
			Amount:       -5,
			BalanceAfter: intPtr(balance),
			Reason:       "image generation",
		})
		require.NoError(t, err, "append %d", i)
	}

	entries, err := store.ListByAccount(ctx, "acct-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// newest first
	assert.Equal(t, 35, *entries[0].BalanceAfter)
	assert.Equal(t, 45, *entries[2].BalanceAfter)

	limited, err := store.ListByAccount(ctx, "acct-1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	// offset skips the newest entries
	page, err := store.ListByAccount(ctx, "acct-1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 45, *page[0].BalanceAfter)

	past, err := store.ListByAccount(ctx, "acct-1", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, past)

	total, err := store.CountByAccount(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestMemory_RejectsInvalidEntry(t *testing.T) {
	store := NewMemory()

	_, err := store.Append(context.Background(), &Entry{Kind: KindGenerationSpend})
	assert.ErrorIs(t, err, ErrInvalidEntry)
	assert.Equal(t, 0, store.Len())
}

func TestMemory_CountByAnonSince(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryWithNow(func() time.Time { return now })

	// two attempts "yesterday"
	now = time.Date(2024, 5, 31, 22, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		_, err := store.Append(ctx, &Entry{AnonID: "203.0.113.5", Kind: KindAnonymousAttempt})
		require.NoError(t, err)
	}

	// one attempt "today"
	now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	_, err := store.Append(ctx, &Entry{AnonID: "203.0.113.5", Kind: KindAnonymousAttempt})
	require.NoError(t, err)

	dayStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	count, err := store.CountByAnonSince(ctx, "203.0.113.5", dayStart)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only today's attempt is inside the window")

	count, err = store.CountByAnonSince(ctx, "198.51.100.7", dayStart)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "other identifiers are unaffected")
}

func TestMemory_AppendAttemptIfUnder(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	since := time.Now().Add(-time.Hour)

	for want := 0; want < 3; want++ {
		ok, used, err := store.AppendAttemptIfUnder(ctx, "203.0.113.5", "generation", since, 3)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, used)
	}

	ok, used, err := store.AppendAttemptIfUnder(ctx, "203.0.113.5", "generation", since, 3)
	require.NoError(t, err)
	assert.False(t, ok, "4th attempt must be refused")
	assert.Equal(t, 3, used)
	assert.Equal(t, 3, store.Len(), "refused attempt must not write an entry")
}

func TestMemory_SumByAccount(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	seed := []struct {
		kind    Kind
		amount  int
		balance int
	}{
		{KindSignupBonus, 50, 50},
		{KindGenerationSpend, -5, 45},
		{KindDailyBonus, 30, 75},
		{KindRemixSpend, -5, 70},
	}

	for _, s := range seed {
		_, err := store.Append(ctx, &Entry{
			AccountID:    "acct-1",
			Kind:         s.kind,
			Amount:       s.amount,
			BalanceAfter: intPtr(s.balance),
		})
		require.NoError(t, err)
	}

	sum, err := store.SumByAccount(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 70, sum)
}
