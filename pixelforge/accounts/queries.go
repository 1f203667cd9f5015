package accounts

const (
	queryGetBalance = `
		SELECT credits FROM users WHERE id = $1
	`

	// the WHERE clause is the no-negative-balance guard: when delta is
	// negative and not covered, no row matches and nothing is written
	queryAdjustBalance = `
		UPDATE users
		SET credits = credits + $2,
			total_credits_earned = total_credits_earned + GREATEST($2, 0),
			updated_at = NOW()
		WHERE id = $1 AND credits + $2 >= 0
		RETURNING credits
	`

	queryGetLastDailyBonusClaim = `
		SELECT last_daily_bonus_claim FROM users WHERE id = $1
	`

	queryMarkDailyBonusClaimed = `
		UPDATE users
		SET last_daily_bonus_claim = $2, updated_at = NOW()
		WHERE id = $1
	`

	queryClearDailyBonusClaim = `
		UPDATE users
		SET last_daily_bonus_claim = NULL, updated_at = NOW()
		WHERE id = $1
	`

	// claims only when the stored claim predates the current day, so two
	// concurrent claims cannot both succeed
	queryClaimDailyBonus = `
		UPDATE users
		SET last_daily_bonus_claim = $2, updated_at = NOW()
		WHERE id = $1
		AND (last_daily_bonus_claim IS NULL OR last_daily_bonus_claim < $3)
		RETURNING id
	`

	// the ledger is the source of truth; credits is a materialized view of it
	queryRebuildFromLedger = `
		UPDATE users
		SET credits = (
			SELECT COALESCE(SUM(amount), 0)
			FROM credit_ledger
			WHERE account_id = $1
		),
		updated_at = NOW()
		WHERE id = $1
		RETURNING credits
	`
)
