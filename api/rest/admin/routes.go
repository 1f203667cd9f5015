package admin

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/pixelforge/accounts"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// registers operator routes; all require an admin account
func RegisterRoutes(router *gin.RouterGroup, engine *limiter.Engine, accountRepo *accounts.Repository) {
	adminGroup := router.Group("/admin")
	adminGroup.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	{
		adminGroup.POST("/credits/adjust", AdjustCreditsHandler(engine))
		adminGroup.POST("/credits/reconcile/:id", ReconcileHandler(accountRepo))
	}
}
