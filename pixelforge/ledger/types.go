package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// identifies what kind of balance- or quota-affecting event an entry records
type Kind string

const (
	KindSignupBonus      Kind = "signup_bonus"
	KindDailyBonus       Kind = "daily_bonus"
	KindGenerationSpend  Kind = "generation_spend"
	KindRemixSpend       Kind = "remix_spend"
	KindAdminAdjustment  Kind = "admin_adjustment"
	KindAnonymousAttempt Kind = "anonymous_attempt"
)

// returned when an entry fails per-kind validation; a caller bug, not retryable
var ErrInvalidEntry = errors.New("invalid ledger entry")

// Entry is one immutable row in the append-only credit ledger.
//
// exactly one of AccountID / AnonID is set depending on Kind:
// anonymous_attempt entries carry an anonymous identifier and no balance,
// every other kind carries an account id and the balance after the event.
type Entry struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id,omitempty"`
	AnonID       string    `json:"-"`
	Kind         Kind      `json:"kind"`
	Amount       int       `json:"amount"`
	BalanceAfter *int      `json:"balance_after,omitempty"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

// persistence contract for the append-only ledger
type Store interface {
	// appends an immutable entry after validating it, returning the stored
	// entry with id and created_at filled in
	Append(ctx context.Context, entry *Entry) (*Entry, error)

	// counts anonymous_attempt entries for one anonymous identifier with
	// created_at >= since
	CountByAnonSince(ctx context.Context, anonID string, since time.Time) (int, error)

	// atomically appends an anonymous_attempt entry only if the identifier's
	// count since `since` is below limit. returns whether the append happened
	// and the usage count observed before the append.
	AppendAttemptIfUnder(ctx context.Context, anonID, reason string, since time.Time, limit int) (bool, int, error)

	// returns a page of an account's history, newest first
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Entry, error)

	// counts all entries for an account, for history pagination
	CountByAccount(ctx context.Context, accountID string) (int, error)

	// sums all amounts for an account; reconciliation source of truth
	SumByAccount(ctx context.Context, accountID string) (int, error)
}

// handles ledger database operations
type Repository struct {
	db *pgxpool.Pool
}
