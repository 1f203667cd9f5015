package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/internal/errors"
	"codeberg.org/pixelforge/server/internal/logger"
	"codeberg.org/pixelforge/server/pixelforge/accounts"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// AdjustCreditsHandler godoc
// @Summary Adjust account credits
// @Description Apply an operator credit adjustment (positive or negative) with an audit reason. Negative adjustments respect the zero floor.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdjustRequest true "Adjustment"
// @Success 200 {object} AdjustResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/credits/adjust [post]
// @Security BearerAuth
func AdjustCreditsHandler(engine *limiter.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdjustRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		decision, err := engine.AdminAdjust(c.Request.Context(), req.AccountID, req.Delta, req.Reason)
		if err != nil {
			errors.InternalError(c, "failed to adjust credits", err)
			return
		}

		logger.Info("admin credit adjustment",
			"account_id", req.AccountID,
			"delta", req.Delta,
			"allowed", decision.Allowed,
		)

		c.JSON(http.StatusOK, AdjustResponse{Decision: decision})
	}
}

// ReconcileHandler godoc
// @Summary Reconcile an account balance
// @Description Rebuild an account's balance from its ledger entries. The ledger is the source of truth; this repairs drift after partial failures.
// @Tags admin
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} ReconcileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/admin/credits/reconcile/{id} [post]
// @Security BearerAuth
func ReconcileHandler(accountRepo *accounts.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		balance, err := accountRepo.Reconcile(c.Request.Context(), accountID)
		if err != nil {
			errors.InternalError(c, "failed to reconcile account", err)
			return
		}

		logger.Info("account reconciled", "account_id", accountID, "balance", balance)

		c.JSON(http.StatusOK, ReconcileResponse{
			AccountID: accountID,
			Balance:   balance,
		})
	}
}
