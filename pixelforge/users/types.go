package users

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles user database operations
type Repository struct {
	db *pgxpool.Pool
}

// represents an authenticated user and their credit account
type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Provider            string     `json:"provider"`
	ProviderID          string     `json:"-"`
	Name                string     `json:"name"`
	AvatarURL           string     `json:"avatar_url"`
	IsAdmin             bool       `json:"-"`
	Credits             int        `json:"credits"`
	TotalCreditsEarned  int        `json:"total_credits_earned"`
	LastDailyBonusClaim *time.Time `json:"last_daily_bonus_claim,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// contains data for updating a user's profile
type UpdateProfileRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
