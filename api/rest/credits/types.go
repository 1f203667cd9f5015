package credits

import (
	"codeberg.org/pixelforge/server/api/rest/pagination"
	"codeberg.org/pixelforge/server/pixelforge/ledger"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// StatusResponse wraps the read-only allowance view
type StatusResponse struct {
	Status *limiter.Status `json:"status"`
}

// BonusResponse returned from a daily bonus claim, allowed or not
type BonusResponse struct {
	Decision *limiter.Decision `json:"decision"`
}

// HistoryResponse is one page of an account's ledger history
type HistoryResponse struct {
	Entries    []ledger.Entry  `json:"entries"`
	Pagination pagination.Meta `json:"pagination"`
}
