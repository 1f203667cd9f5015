package credits

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// registers credit accounting routes
func RegisterRoutes(router *gin.RouterGroup, engine *limiter.Engine) {
	creditsGroup := router.Group("/credits")
	{
		creditsGroup.GET("/status", auth.OptionalAuthMiddleware(), StatusHandler(engine))
		creditsGroup.POST("/daily-bonus", auth.AuthMiddleware(), DailyBonusHandler(engine))
		creditsGroup.GET("/history", auth.AuthMiddleware(), HistoryHandler(engine))
	}
}
