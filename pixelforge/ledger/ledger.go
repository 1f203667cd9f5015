package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new ledger repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// validates the per-kind union rules for an entry
func Validate(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	switch entry.Kind {
	case KindAnonymousAttempt:
		if entry.AnonID == "" {
			return fmt.Errorf("%w: anonymous_attempt requires an anonymous identifier", ErrInvalidEntry)
		}
		if entry.AccountID != "" {
			return fmt.Errorf("%w: anonymous_attempt must not carry an account id", ErrInvalidEntry)
		}
		if entry.BalanceAfter != nil {
			return fmt.Errorf("%w: anonymous_attempt must not carry a balance", ErrInvalidEntry)
		}
		if entry.Amount != 0 {
			return fmt.Errorf("%w: anonymous_attempt amount must be zero", ErrInvalidEntry)
		}
	case KindSignupBonus, KindDailyBonus, KindGenerationSpend, KindRemixSpend, KindAdminAdjustment:
		if entry.AccountID == "" {
			return fmt.Errorf("%w: %s requires an account id", ErrInvalidEntry, entry.Kind)
		}
		if entry.AnonID != "" {
			return fmt.Errorf("%w: %s must not carry an anonymous identifier", ErrInvalidEntry, entry.Kind)
		}
		if entry.BalanceAfter == nil {
			return fmt.Errorf("%w: %s requires balance_after", ErrInvalidEntry, entry.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEntry, entry.Kind)
	}

	return nil
}

// appends an immutable entry; rows are never updated or deleted
func (r *Repository) Append(ctx context.Context, entry *Entry) (*Entry, error) {
	if err := Validate(entry); err != nil {
		return nil, err
	}

	var accountID, anonID *string
	if entry.AccountID != "" {
		accountID = &entry.AccountID
	}
	if entry.AnonID != "" {
		anonID = &entry.AnonID
	}

	stored := *entry

	err := r.db.QueryRow(
		ctx,
		queryAppend,
		accountID,
		anonID,
		entry.Kind,
		entry.Amount,
		entry.BalanceAfter,
		entry.Reason,
	).Scan(&stored.ID, &stored.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return &stored, nil
}

// counts anonymous_attempt entries for an identifier since the given moment
func (r *Repository) CountByAnonSince(ctx context.Context, anonID string, since time.Time) (int, error) {
	var count int

	err := r.db.QueryRow(ctx, queryCountByAnonSince, anonID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count anonymous attempts: %w", err)
	}

	return count, nil
}

// atomically records an anonymous attempt only while the identifier is under
// the limit. an advisory lock keyed on the identifier serializes concurrent
// attempts so two requests cannot both slip under the cap.
func (r *Repository) AppendAttemptIfUnder(
	ctx context.Context,
	anonID, reason string,
	since time.Time,
	limit int,
) (bool, int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	// released automatically at commit/rollback
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, anonID); err != nil {
		return false, 0, fmt.Errorf("failed to take anon lock: %w", err)
	}

	var used int
	if err := tx.QueryRow(ctx, queryCountByAnonSince, anonID, since).Scan(&used); err != nil {
		return false, 0, fmt.Errorf("failed to count anonymous attempts: %w", err)
	}

	if used >= limit {
		return false, used, nil
	}

	var id string
	err = tx.QueryRow(ctx, queryAppendAttemptIfUnder, anonID, reason, since, limit).Scan(&id)
	if err != nil {
		return false, used, fmt.Errorf("failed to append anonymous attempt: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, used, fmt.Errorf("failed to commit anonymous attempt: %w", err)
	}

	return true, used, nil
}

// returns a page of an account's entries, newest first
func (r *Repository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Entry, error) {
	rows, err := r.db.Query(ctx, queryListByAccount, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	defer rows.Close()

	entries := []Entry{}

	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.AccountID,
			&e.AnonID,
			&e.Kind,
			&e.Amount,
			&e.BalanceAfter,
			&e.Reason,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}

	return entries, nil
}

// counts all entries for an account
func (r *Repository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var count int

	err := r.db.QueryRow(ctx, queryCountByAccount, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}

// sums all amounts for an account. the ledger is the source of truth: this
// sum must equal the account's current balance.
func (r *Repository) SumByAccount(ctx context.Context, accountID string) (int, error) {
	var sum int

	err := r.db.QueryRow(ctx, querySumByAccount, accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return sum, nil
}
