package websocket

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// registers the live status feed route
func RegisterRoutes(router *gin.RouterGroup, engine *limiter.Engine) {
	router.GET("/ws/status", StatusFeedHandler(engine))
}
