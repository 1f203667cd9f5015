package generate

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/internal/imagen"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
)

// registers image generation routes
func RegisterRoutes(router *gin.RouterGroup, engine *limiter.Engine, generator imagen.Generator) {
	router.POST("/generate", auth.OptionalAuthMiddleware(), Handler(engine, generator))
	router.POST("/generate/remix", auth.OptionalAuthMiddleware(), RemixHandler(engine, generator))
}
