package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new account repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// returns the current credit balance for an account
func (r *Repository) GetBalance(ctx context.Context, accountID string) (int, error) {
	var balance int

	err := r.db.QueryRow(ctx, queryGetBalance, accountID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}

	return balance, nil
}

// atomically applies delta with a floor at zero. the conditional UPDATE is
// the entire check-and-mutate step; concurrent spends on the same account
// serialize on the row lock and at most one can take the last credits.
func (r *Repository) AdjustBalance(ctx context.Context, accountID string, delta int) (int, error) {
	var balance int

	err := r.db.QueryRow(ctx, queryAdjustBalance, accountID, delta).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// no row matched: either the account is missing or the delta is
		// not covered. disambiguate for the caller.
		if _, lookupErr := r.GetBalance(ctx, accountID); lookupErr != nil {
			return 0, lookupErr
		}

		return 0, ErrInsufficientBalance
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}

	return balance, nil
}

// returns the last daily bonus claim time, nil if never claimed
func (r *Repository) GetLastDailyBonusClaim(ctx context.Context, accountID string) (*time.Time, error) {
	var claim *time.Time

	err := r.db.QueryRow(ctx, queryGetLastDailyBonusClaim, accountID).Scan(&claim)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read daily bonus claim: %w", err)
	}

	return claim, nil
}

// records a daily bonus claim without eligibility checks
func (r *Repository) MarkDailyBonusClaimed(ctx context.Context, accountID string, at time.Time) error {
	tag, err := r.db.Exec(ctx, queryMarkDailyBonusClaimed, accountID, at)
	if err != nil {
		return fmt.Errorf("failed to mark daily bonus claimed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// removes the stored daily bonus claim
func (r *Repository) ClearDailyBonusClaim(ctx context.Context, accountID string) error {
	tag, err := r.db.Exec(ctx, queryClearDailyBonusClaim, accountID)
	if err != nil {
		return fmt.Errorf("failed to clear daily bonus claim: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// atomically claims the daily bonus when the stored claim predates dayStart.
// returns false (no error) when the bonus was already claimed today.
func (r *Repository) ClaimDailyBonus(ctx context.Context, accountID string, at, dayStart time.Time) (bool, error) {
	var id string

	err := r.db.QueryRow(ctx, queryClaimDailyBonus, accountID, at, dayStart).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// already claimed today, or account missing
		if _, lookupErr := r.GetBalance(ctx, accountID); lookupErr != nil {
			return false, lookupErr
		}

		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to claim daily bonus: %w", err)
	}

	return true, nil
}

// rebuilds the materialized balance from the ledger sum and returns it
func (r *Repository) Reconcile(ctx context.Context, accountID string) (int, error) {
	var balance int

	err := r.db.QueryRow(ctx, queryRebuildFromLedger, accountID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile balance: %w", err)
	}

	return balance, nil
}
