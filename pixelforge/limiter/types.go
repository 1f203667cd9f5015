package limiter

import (
	"time"
)

// credit-consuming actions the engine meters
type Action string

const (
	ActionGeneration Action = "generation"
	ActionRemix      Action = "remix"
)

// structured denial reasons surfaced verbatim by the web layer
const (
	ReasonInsufficientCredits   = "insufficient_credits"
	ReasonAnonymousLimitReached = "anonymous_limit_reached"
	ReasonAlreadyClaimed        = "already_claimed"
)

// Remaining value meaning no limit applies (exempt actors)
const Unlimited = -1

// Actor identifies who is making a metered request: an authenticated
// account or an anonymous identifier (the client network address), never
// both.
type Actor struct {
	AccountID string
	AnonID    string
}

// reports whether the actor is an authenticated account
func (a Actor) IsAuthenticated() bool {
	return a.AccountID != ""
}

// returns the identifier used for exemption checks and logging
func (a Actor) Ref() string {
	if a.AccountID != "" {
		return a.AccountID
	}

	return a.AnonID
}

// Decision is the transient allow/deny result returned to callers.
// it is never persisted; the ledger records the event, the decision
// explains it.
type Decision struct {
	Allowed   bool      `json:"allowed"`
	Reason    string    `json:"reason,omitempty"`
	Cost      int       `json:"cost"`
	Remaining int       `json:"remaining"` // credits or free attempts; -1 = unlimited
	Required  int       `json:"required,omitempty"`
	Available int       `json:"available,omitempty"`
	Used      int       `json:"used,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	ResetAt   time.Time `json:"reset_at,omitzero"`
}

// Status is the read-only view served to "you have N left" banners
type Status struct {
	Type      string    `json:"type"` // "authenticated" or "anonymous"
	Credits   int       `json:"credits,omitempty"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Config is the engine's recognized tuning surface
type Config struct {
	AnonymousDailyLimit int
	GenerationCost      int
	RemixCost           int
	DailyBonusAmount    int
	SignupBonusAmount   int
	ExemptActors        []string
}

// returns the engine defaults
func DefaultConfig() Config {
	return Config{
		AnonymousDailyLimit: 3,
		GenerationCost:      5,
		RemixCost:           5,
		DailyBonusAmount:    30,
		SignupBonusAmount:   50,
	}
}

// returns the credit cost of an action
func (c Config) CostOf(action Action) int {
	switch action {
	case ActionRemix:
		return c.RemixCost
	default:
		return c.GenerationCost
	}
}
