package ledger

const (
	queryAppend = `
		INSERT INTO credit_ledger (account_id, anon_id, kind, amount, balance_after, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	queryCountByAnonSince = `
		SELECT COUNT(*)
		FROM credit_ledger
		WHERE anon_id = $1
		AND kind = 'anonymous_attempt'
		AND created_at >= $2
	`

	// single-statement conditional append: the count check and the insert
	// happen atomically so two concurrent attempts cannot both slip under
	// the limit
	queryAppendAttemptIfUnder = `
		INSERT INTO credit_ledger (anon_id, kind, amount, reason)
		SELECT $1, 'anonymous_attempt', 0, $2
		WHERE (
			SELECT COUNT(*)
			FROM credit_ledger
			WHERE anon_id = $1
			AND kind = 'anonymous_attempt'
			AND created_at >= $3
		) < $4
		RETURNING id
	`

	queryListByAccount = `
		SELECT id, account_id, COALESCE(anon_id, ''), kind, amount, balance_after, reason, created_at
		FROM credit_ledger
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	queryCountByAccount = `
		SELECT COUNT(*)
		FROM credit_ledger
		WHERE account_id = $1
	`

	querySumByAccount = `
		SELECT COALESCE(SUM(amount), 0)
		FROM credit_ledger
		WHERE account_id = $1
	`
)
