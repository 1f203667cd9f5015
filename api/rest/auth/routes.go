package auth

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
	"codeberg.org/pixelforge/server/pixelforge/users"
)

// registers all authentication routes
func RegisterRoutes(router *gin.RouterGroup, userRepo *users.Repository, engine *limiter.Engine, signupCredits int) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/:provider", BeginAuthHandler())
		authGroup.GET("/:provider/callback", CallbackHandler(userRepo, engine, signupCredits))
		authGroup.POST("/logout", LogoutHandler())
		authGroup.GET("/me", auth.AuthMiddleware(), GetCurrentUserHandler(userRepo))
		authGroup.PUT("/me", auth.AuthMiddleware(), UpdateProfileHandler(userRepo))
	}
}
