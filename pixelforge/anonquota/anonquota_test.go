package anonquota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixelforge/server/internal/clock"
	"codeberg.org/pixelforge/server/pixelforge/ledger"
)

func newFixture(t *testing.T, now *time.Time) (*Tracker, *ledger.Memory) {
	t.Helper()

	nowFn := func() time.Time { return *now }

	clk, err := clock.NewWithNow("America/New_York", nowFn)
	require.NoError(t, err)

	store := ledger.NewMemoryWithNow(nowFn)
	return NewTracker(store, clk), store
}

func TestTracker_UsageCountsOnlyToday(t *testing.T) {
	ctx := context.Background()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 23, 30, 0, 0, loc)
	tracker, _ := newFixture(t, &now)

	require.NoError(t, tracker.RecordAttempt(ctx, "203.0.113.5", "generation"))
	require.NoError(t, tracker.RecordAttempt(ctx, "203.0.113.5", "generation"))

	usage, err := tracker.GetUsage(ctx, "203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, 2, usage)

	// half an hour later it is a new calendar day: the window moved, the
	// old entries stay in the ledger but drop out of the count
	now = time.Date(2024, 6, 2, 0, 0, 1, 0, loc)

	usage, err = tracker.GetUsage(ctx, "203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, 0, usage)
}

func TestTracker_UsageIsPerIdentifier(t *testing.T) {
	ctx := context.Background()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, loc)
	tracker, _ := newFixture(t, &now)

	require.NoError(t, tracker.RecordAttempt(ctx, "203.0.113.5", "generation"))

	usage, err := tracker.GetUsage(ctx, "198.51.100.7")
	require.NoError(t, err)
	assert.Equal(t, 0, usage)
}

func TestTracker_TryRecordAttempt_EnforcesLimit(t *testing.T) {
	ctx := context.Background()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, loc)
	tracker, store := newFixture(t, &now)

	for want := 0; want < 3; want++ {
		ok, used, err := tracker.TryRecordAttempt(ctx, "203.0.113.5", "generation", 3)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, used)
	}

	ok, used, err := tracker.TryRecordAttempt(ctx, "203.0.113.5", "generation", 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, used)
	assert.Equal(t, 3, store.Len(), "a refused attempt leaves no ledger entry")
}

func TestTracker_ResetIsAWindowNotAMutation(t *testing.T) {
	ctx := context.Background()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, loc)
	tracker, store := newFixture(t, &now)

	for i := 0; i < 3; i++ {
		ok, _, err := tracker.TryRecordAttempt(ctx, "203.0.113.5", "generation", 3)
		require.NoError(t, err)
		require.True(t, ok)
	}

	entriesBefore := store.Len()

	// next calendar day: capacity is back without any clearing writes
	now = time.Date(2024, 6, 2, 9, 0, 0, 0, loc)

	usage, err := tracker.GetUsage(ctx, "203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, 0, usage)
	assert.Equal(t, entriesBefore, store.Len())
}
