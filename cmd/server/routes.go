package main

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"codeberg.org/pixelforge/server/api/rest/admin"
	"codeberg.org/pixelforge/server/api/rest/auth"
	"codeberg.org/pixelforge/server/api/rest/credits"
	"codeberg.org/pixelforge/server/api/rest/generate"
	"codeberg.org/pixelforge/server/api/rest/health"
	"codeberg.org/pixelforge/server/api/websocket"
	"codeberg.org/pixelforge/server/internal/throttle"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if server.config.Environment == "production" {
		corsConfig.AllowOrigins = []string{server.config.BaseURL}
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	router.Use(cors.New(corsConfig))

	throttleMiddleware, err := throttle.Middleware(server.redis, server.config.ThrottleRate)
	if err != nil {
		return fmt.Errorf("failed to build throttle middleware: %w", err)
	}

	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")
	v1.Use(throttleMiddleware)

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.userRepo, server.engine, server.config.SignupBonusAmount)
		generate.RegisterRoutes(v1, server.engine, server.generator)
		credits.RegisterRoutes(v1, server.engine)
		admin.RegisterRoutes(v1, server.engine, server.accountRepo)
		websocket.RegisterRoutes(v1, server.engine)
	}

	return nil
}
