package users

const (
	// (xmax = 0) distinguishes a fresh insert from a conflict-update, so the
	// caller knows whether to record the signup bonus in the ledger
	queryFindOrCreateByProvider = `
		INSERT INTO users (provider, provider_id, email, name, avatar_url, credits, total_credits_earned)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (provider, provider_id)
		DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()
		RETURNING id, email, provider, provider_id, name, avatar_url, is_admin,
			credits, total_credits_earned, last_daily_bonus_claim, created_at, updated_at,
			(xmax = 0) AS created
	`

	queryFindByID = `
		SELECT id, email, provider, provider_id, name, avatar_url, is_admin,
			credits, total_credits_earned, last_daily_bonus_claim, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	queryUpdateProfile = `
		UPDATE users
		SET name = $1, avatar_url = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, email, provider, provider_id, name, avatar_url, is_admin,
			credits, total_credits_earned, last_daily_bonus_claim, created_at, updated_at
	`
)
