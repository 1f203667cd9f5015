package anonquota

import (
	"context"
	"fmt"

	"codeberg.org/pixelforge/server/internal/clock"
	"codeberg.org/pixelforge/server/pixelforge/ledger"
)

// Tracker derives an anonymous actor's same-day usage from the ledger.
//
// there is no persisted counter: usage is a time-windowed count of
// anonymous_attempt entries, so quota "reset" at the day boundary is just
// the window moving forward. the identifier is whatever stable-enough proxy
// the web layer supplies (the client network address); the tracker does not
// validate its trustworthiness.
type Tracker struct {
	ledger ledger.Store
	clock  *clock.Service
}

// creates a tracker over the given ledger and clock
func NewTracker(store ledger.Store, clk *clock.Service) *Tracker {
	return &Tracker{ledger: store, clock: clk}
}

// returns the identifier's attempt count since the start of the current day
func (t *Tracker) GetUsage(ctx context.Context, anonID string) (int, error) {
	count, err := t.ledger.CountByAnonSince(ctx, anonID, t.clock.StartOfToday())
	if err != nil {
		return 0, fmt.Errorf("failed to derive anonymous usage: %w", err)
	}

	return count, nil
}

// records an attempt unconditionally; enforcement belongs to the limiter
func (t *Tracker) RecordAttempt(ctx context.Context, anonID, reason string) error {
	_, err := t.ledger.Append(ctx, &ledger.Entry{
		AnonID: anonID,
		Kind:   ledger.KindAnonymousAttempt,
		Reason: reason,
	})
	if err != nil {
		return fmt.Errorf("failed to record anonymous attempt: %w", err)
	}

	return nil
}

// atomically records an attempt only while the identifier is under limit
// for the current day. returns whether the attempt was recorded and the
// usage observed before it.
func (t *Tracker) TryRecordAttempt(ctx context.Context, anonID, reason string, limit int) (bool, int, error) {
	ok, used, err := t.ledger.AppendAttemptIfUnder(ctx, anonID, reason, t.clock.StartOfToday(), limit)
	if err != nil {
		return false, 0, fmt.Errorf("failed to record anonymous attempt: %w", err)
	}

	return ok, used, nil
}
