package users

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new user repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// finds a user by OAuth provider or creates a new one. a new account is
// seeded with signupCredits; created reports whether this call created it,
// so the caller can record the signup bonus in the ledger exactly once.
func (r *Repository) FindOrCreateByProvider(
	ctx context.Context,
	provider, providerID, email, name, avatarURL string,
	signupCredits int,
) (*User, bool, error) {
	var user User
	var created bool

	err := r.db.QueryRow(
		ctx,
		queryFindOrCreateByProvider,
		provider,
		providerID,
		email,
		name,
		avatarURL,
		signupCredits,
	).Scan(
		&user.ID,
		&user.Email,
		&user.Provider,
		&user.ProviderID,
		&user.Name,
		&user.AvatarURL,
		&user.IsAdmin,
		&user.Credits,
		&user.TotalCreditsEarned,
		&user.LastDailyBonusClaim,
		&user.CreatedAt,
		&user.UpdatedAt,
		&created,
	)

	if err != nil {
		return nil, false, err
	}

	return &user, created, nil
}

// finds a user by their ID
func (r *Repository) FindByID(ctx context.Context, userID string) (*User, error) {
	var user User

	err := r.db.QueryRow(ctx, queryFindByID, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Provider,
		&user.ProviderID,
		&user.Name,
		&user.AvatarURL,
		&user.IsAdmin,
		&user.Credits,
		&user.TotalCreditsEarned,
		&user.LastDailyBonusClaim,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// updates a user's name and avatar URL
func (r *Repository) UpdateProfile(
	ctx context.Context,
	userID, name, avatarURL string,
) (*User, error) {
	var user User

	err := r.db.QueryRow(
		ctx,
		queryUpdateProfile,
		name,
		avatarURL,
		userID,
	).Scan(
		&user.ID,
		&user.Email,
		&user.Provider,
		&user.ProviderID,
		&user.Name,
		&user.AvatarURL,
		&user.IsAdmin,
		&user.Credits,
		&user.TotalCreditsEarned,
		&user.LastDailyBonusClaim,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &user, nil
}
