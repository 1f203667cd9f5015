package admin

import "codeberg.org/pixelforge/server/pixelforge/limiter"

// AdjustRequest applies an operator credit adjustment to an account
type AdjustRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
	Delta     int    `json:"delta" binding:"required"`
	Reason    string `json:"reason" binding:"required,max=500"`
}

// AdjustResponse carries the adjustment outcome
type AdjustResponse struct {
	Decision *limiter.Decision `json:"decision"`
}

// ReconcileResponse reports a rebuilt balance
type ReconcileResponse struct {
	AccountID string `json:"account_id"`
	Balance   int    `json:"balance"`
}
