package credits

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/api/rest/pagination"
	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/internal/errors"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// StatusHandler godoc
// @Summary Get credit status
// @Description Get the caller's current allowance: credit balance for authenticated users, remaining free attempts and reset time for anonymous callers. Never consumes anything.
// @Tags credits
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/credits/status [get]
func StatusHandler(engine *limiter.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := auth.ResolveActor(c)

		status, err := engine.PeekStatus(c.Request.Context(), actor)
		if err != nil {
			errors.InternalError(c, "failed to read credit status", err)
			return
		}

		c.JSON(http.StatusOK, StatusResponse{Status: status})
	}
}

// DailyBonusHandler godoc
// @Summary Claim the daily bonus
// @Description Claim the once-per-day credit bonus. Idempotent within a day: a second claim returns a denial with the next claim time, not an error.
// @Tags credits
// @Produce json
// @Success 200 {object} BonusResponse "Bonus granted, decision.allowed is true"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} BonusResponse "Already claimed today"
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/credits/daily-bonus [post]
// @Security BearerAuth
func DailyBonusHandler(engine *limiter.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := auth.ResolveActor(c)

		decision, err := engine.ClaimDailyBonus(c.Request.Context(), actor)
		if err != nil {
			errors.InternalError(c, "failed to claim daily bonus", err)
			return
		}

		if !decision.Allowed {
			c.JSON(http.StatusConflict, BonusResponse{Decision: decision})
			return
		}

		c.JSON(http.StatusOK, BonusResponse{Decision: decision})
	}
}

// HistoryHandler godoc
// @Summary Get credit history
// @Description Get a page of the authenticated account's ledger history, newest first
// @Tags credits
// @Produce json
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} HistoryResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/credits/history [get]
// @Security BearerAuth
func HistoryHandler(engine *limiter.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))   //nolint:errcheck // defaults applied below
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0")) //nolint:errcheck // defaults applied below

		params := pagination.DefaultParams(limit, offset, defaultHistoryLimit, maxHistoryLimit)

		entries, total, err := engine.GetHistory(
			c.Request.Context(),
			limiter.Actor{AccountID: userID},
			params.Limit,
			params.Offset,
		)
		if err != nil {
			errors.InternalError(c, "failed to read credit history", err)
			return
		}

		c.JSON(http.StatusOK, HistoryResponse{
			Entries:    entries,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}
