package limiter

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/pixelforge/server/internal/clock"
	"codeberg.org/pixelforge/server/pixelforge/accounts"
	"codeberg.org/pixelforge/server/pixelforge/anonquota"
	"codeberg.org/pixelforge/server/pixelforge/ledger"
)

// returned for operations that only make sense for authenticated accounts
var ErrAnonymousActor = errors.New("operation requires an authenticated account")

// Engine decides, for every credit-consuming action, whether the action is
// allowed, deducts the cost exactly once, and records the auditable ledger
// entry.
//
// expected outcomes (insufficient credits, quota reached, bonus already
// claimed) are returned as denials inside the Decision, never as errors.
// errors mean storage or caller bugs, and the action did not happen:
// the engine fails closed.
type Engine struct {
	cfg      Config
	accounts accounts.Store
	ledger   ledger.Store
	anon     *anonquota.Tracker
	clock    *clock.Service
	exempt   exemptList
}

// creates a limiter engine over the given stores and clock
func New(cfg Config, accountStore accounts.Store, ledgerStore ledger.Store, clk *clock.Service) *Engine {
	return &Engine{
		cfg:      cfg,
		accounts: accountStore,
		ledger:   ledgerStore,
		anon:     anonquota.NewTracker(ledgerStore, clk),
		clock:    clk,
		exempt:   newExemptList(cfg.ExemptActors),
	}
}

// reports whether the actor is on the bypass allow-list
func (e *Engine) IsExempt(actor Actor) bool {
	return e.exempt.isExempt(actor)
}

// the single mutating entry point for metered actions. callers must not
// invoke it twice for one logical user action: once the atomic mutation is
// issued the spend is applied, and a blind retry is a double-spend.
func (e *Engine) CheckAndSpend(ctx context.Context, actor Actor, action Action) (*Decision, error) {
	cost := e.cfg.CostOf(action)

	// bypass policy comes first: exempt traffic skips checks, mutations,
	// and the ledger entirely
	if e.exempt.isExempt(actor) {
		return &Decision{Allowed: true, Cost: cost, Remaining: Unlimited}, nil
	}

	if actor.IsAuthenticated() {
		return e.spendCredits(ctx, actor.AccountID, action, cost)
	}

	return e.spendAnonAttempt(ctx, actor.AnonID, action, cost)
}

func (e *Engine) spendCredits(ctx context.Context, accountID string, action Action, cost int) (*Decision, error) {
	newBalance, err := e.accounts.AdjustBalance(ctx, accountID, -cost)

	if errors.Is(err, accounts.ErrInsufficientBalance) {
		available, balErr := e.accounts.GetBalance(ctx, accountID)
		if balErr != nil {
			return nil, fmt.Errorf("failed to read balance for denial: %w", balErr)
		}

		return &Decision{
			Allowed:   false,
			Reason:    ReasonInsufficientCredits,
			Cost:      cost,
			Remaining: available,
			Required:  cost,
			Available: available,
		}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to spend credits: %w", err)
	}

	if _, err := e.ledger.Append(ctx, &ledger.Entry{
		AccountID:    accountID,
		Kind:         spendKind(action),
		Amount:       -cost,
		BalanceAfter: &newBalance,
		Reason:       spendReason(action, cost),
	}); err != nil {
		// the balance moved but the audit record did not. undo the spend so
		// the ledger stays the source of truth, then fail closed.
		if _, refundErr := e.accounts.AdjustBalance(ctx, accountID, cost); refundErr != nil {
			return nil, fmt.Errorf(
				"ledger append failed (%w) and refund failed (%w): account %s needs reconciliation",
				err, refundErr, accountID,
			)
		}

		return nil, fmt.Errorf("failed to record spend: %w", err)
	}

	return &Decision{
		Allowed:   true,
		Cost:      cost,
		Remaining: newBalance,
	}, nil
}

func (e *Engine) spendAnonAttempt(ctx context.Context, anonID string, action Action, cost int) (*Decision, error) {
	limit := e.cfg.AnonymousDailyLimit
	resetAt := e.clock.NextDayStart(e.clock.Now())

	// write-then-allow: the appended entry is the increment, and the
	// conditional append is atomic per identifier
	ok, used, err := e.anon.TryRecordAttempt(ctx, anonID, string(action), limit)
	if err != nil {
		return nil, err
	}

	if !ok {
		return &Decision{
			Allowed:   false,
			Reason:    ReasonAnonymousLimitReached,
			Cost:      cost,
			Remaining: 0,
			Used:      used,
			Limit:     limit,
			ResetAt:   resetAt,
		}, nil
	}

	return &Decision{
		Allowed:   true,
		Cost:      cost,
		Remaining: limit - (used + 1),
		Used:      used + 1,
		Limit:     limit,
		ResetAt:   resetAt,
	}, nil
}

// grants the fixed daily bonus once per calendar day in the configured
// timezone. re-claiming the same day is a denial whose reset time derives
// from the stored claim, not from "now".
func (e *Engine) ClaimDailyBonus(ctx context.Context, actor Actor) (*Decision, error) {
	if e.exempt.isExempt(actor) {
		return &Decision{Allowed: true, Remaining: Unlimited}, nil
	}

	if !actor.IsAuthenticated() {
		return nil, ErrAnonymousActor
	}

	now := e.clock.Now()

	claimed, err := e.accounts.ClaimDailyBonus(ctx, actor.AccountID, now, e.clock.StartOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to claim daily bonus: %w", err)
	}

	if !claimed {
		last, err := e.accounts.GetLastDailyBonusClaim(ctx, actor.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to read last claim: %w", err)
		}

		resetAt := e.clock.NextDayStart(now)
		if last != nil {
			resetAt = e.clock.NextDayStart(*last)
		}

		return &Decision{
			Allowed: false,
			Reason:  ReasonAlreadyClaimed,
			ResetAt: resetAt,
		}, nil
	}

	bonus := e.cfg.DailyBonusAmount

	newBalance, err := e.accounts.AdjustBalance(ctx, actor.AccountID, bonus)
	if err != nil {
		return nil, fmt.Errorf("failed to grant daily bonus: %w", err)
	}

	if _, err := e.ledger.Append(ctx, &ledger.Entry{
		AccountID:    actor.AccountID,
		Kind:         ledger.KindDailyBonus,
		Amount:       bonus,
		BalanceAfter: &newBalance,
		Reason:       fmt.Sprintf("daily bonus (+%d credits)", bonus),
	}); err != nil {
		// the balance moved and the claim stamp was consumed, but the audit
		// record did not land. undo both so the ledger stays the source of
		// truth and the claim stays available, then fail closed.
		if _, refundErr := e.accounts.AdjustBalance(ctx, actor.AccountID, -bonus); refundErr != nil {
			return nil, fmt.Errorf(
				"ledger append failed (%w) and rollback failed (%w): account %s needs reconciliation",
				err, refundErr, actor.AccountID,
			)
		}

		if clearErr := e.accounts.ClearDailyBonusClaim(ctx, actor.AccountID); clearErr != nil {
			return nil, fmt.Errorf(
				"ledger append failed (%w) and claim reset failed (%w): account %s needs reconciliation",
				err, clearErr, actor.AccountID,
			)
		}

		return nil, fmt.Errorf("failed to record daily bonus: %w", err)
	}

	return &Decision{
		Allowed:   true,
		Cost:      -bonus,
		Remaining: newBalance,
		ResetAt:   e.clock.NextDayStart(now),
	}, nil
}

// read-only view of the actor's standing; no side effects
func (e *Engine) PeekStatus(ctx context.Context, actor Actor) (*Status, error) {
	resetAt := e.clock.NextDayStart(e.clock.Now())

	if e.exempt.isExempt(actor) {
		status := &Status{Type: "anonymous", Remaining: Unlimited, ResetAt: resetAt}
		if actor.IsAuthenticated() {
			status.Type = "authenticated"
		}

		return status, nil
	}

	if actor.IsAuthenticated() {
		balance, err := e.accounts.GetBalance(ctx, actor.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to read balance: %w", err)
		}

		return &Status{
			Type:      "authenticated",
			Credits:   balance,
			Remaining: balance,
			ResetAt:   resetAt,
		}, nil
	}

	used, err := e.anon.GetUsage(ctx, actor.AnonID)
	if err != nil {
		return nil, err
	}

	remaining := e.cfg.AnonymousDailyLimit - used
	if remaining < 0 {
		remaining = 0
	}

	return &Status{
		Type:      "anonymous",
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// returns a page of the account's ledger history, newest first, with the
// total entry count for pagination. anonymous actors have no history view.
func (e *Engine) GetHistory(ctx context.Context, actor Actor, limit, offset int) ([]ledger.Entry, int, error) {
	if !actor.IsAuthenticated() {
		return []ledger.Entry{}, 0, nil
	}

	if limit <= 0 {
		limit = 50
	}

	if offset < 0 {
		offset = 0
	}

	entries, err := e.ledger.ListByAccount(ctx, actor.AccountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := e.ledger.CountByAccount(ctx, actor.AccountID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// records the signup grant for a freshly created account. the account row
// is seeded with the bonus at creation; this writes the matching ledger
// entry so the reconciliation property holds from the first row.
func (e *Engine) RecordSignupBonus(ctx context.Context, accountID string) error {
	bonus := e.cfg.SignupBonusAmount

	_, err := e.ledger.Append(ctx, &ledger.Entry{
		AccountID:    accountID,
		Kind:         ledger.KindSignupBonus,
		Amount:       bonus,
		BalanceAfter: &bonus,
		Reason:       fmt.Sprintf("signup bonus (+%d credits)", bonus),
	})
	if err != nil {
		return fmt.Errorf("failed to record signup bonus: %w", err)
	}

	return nil
}

// applies an operator adjustment (positive or negative) with an audit trail
func (e *Engine) AdminAdjust(ctx context.Context, accountID string, delta int, reason string) (*Decision, error) {
	newBalance, err := e.accounts.AdjustBalance(ctx, accountID, delta)

	if errors.Is(err, accounts.ErrInsufficientBalance) {
		available, balErr := e.accounts.GetBalance(ctx, accountID)
		if balErr != nil {
			return nil, fmt.Errorf("failed to read balance for denial: %w", balErr)
		}

		return &Decision{
			Allowed:   false,
			Reason:    ReasonInsufficientCredits,
			Cost:      -delta,
			Remaining: available,
			Required:  -delta,
			Available: available,
		}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to apply adjustment: %w", err)
	}

	if _, err := e.ledger.Append(ctx, &ledger.Entry{
		AccountID:    accountID,
		Kind:         ledger.KindAdminAdjustment,
		Amount:       delta,
		BalanceAfter: &newBalance,
		Reason:       reason,
	}); err != nil {
		if _, refundErr := e.accounts.AdjustBalance(ctx, accountID, -delta); refundErr != nil {
			return nil, fmt.Errorf(
				"ledger append failed (%w) and rollback failed (%w): account %s needs reconciliation",
				err, refundErr, accountID,
			)
		}

		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}

	return &Decision{Allowed: true, Cost: -delta, Remaining: newBalance}, nil
}

func spendKind(action Action) ledger.Kind {
	if action == ActionRemix {
		return ledger.KindRemixSpend
	}

	return ledger.KindGenerationSpend
}

func spendReason(action Action, cost int) string {
	if action == ActionRemix {
		return fmt.Sprintf("image remix (-%d credits)", cost)
	}

	return fmt.Sprintf("image generation (-%d credits)", cost)
}
