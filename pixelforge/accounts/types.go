package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// returned when a spend would take the balance below zero
var ErrInsufficientBalance = errors.New("insufficient balance")

// returned when no account exists for the given id
var ErrNotFound = errors.New("account not found")

// persistence contract for account credit state.
//
// every mutation is a single atomic conditional update with respect to
// concurrent requests on the same account; callers never read-modify-write.
type Store interface {
	// returns the current credit balance
	GetBalance(ctx context.Context, accountID string) (int, error)

	// atomically applies delta and returns the new balance. fails with
	// ErrInsufficientBalance when a negative delta is not covered by the
	// current balance; the check and the mutation are one operation.
	AdjustBalance(ctx context.Context, accountID string, delta int) (int, error)

	// returns the last daily bonus claim, or nil if never claimed
	GetLastDailyBonusClaim(ctx context.Context, accountID string) (*time.Time, error)

	// records a daily bonus claim unconditionally
	MarkDailyBonusClaimed(ctx context.Context, accountID string, at time.Time) error

	// removes the stored claim so the bonus can be claimed again; used to
	// undo a claim whose ledger entry could not be written
	ClearDailyBonusClaim(ctx context.Context, accountID string) error

	// atomically claims the daily bonus only if the stored claim time
	// predates dayStart (or is unset). returns whether the claim happened.
	ClaimDailyBonus(ctx context.Context, accountID string, at, dayStart time.Time) (bool, error)
}

// handles credit-balance database operations on the users table
type Repository struct {
	db *pgxpool.Pool
}
