package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"codeberg.org/pixelforge/server/internal/clock"
	"codeberg.org/pixelforge/server/internal/config"
	"codeberg.org/pixelforge/server/internal/imagen"
	"codeberg.org/pixelforge/server/pixelforge/accounts"
	"codeberg.org/pixelforge/server/pixelforge/ledger"
	"codeberg.org/pixelforge/server/pixelforge/limiter"
	"codeberg.org/pixelforge/server/pixelforge/users"
)

// holds all dependencies and state for the API server
type Server struct {
	db          *pgxpool.Pool
	redis       *redis.Client
	config      *config.Config
	clock       *clock.Service
	userRepo    *users.Repository
	accountRepo *accounts.Repository
	ledgerRepo  *ledger.Repository
	engine      *limiter.Engine
	generator   imagen.Generator
	router      *gin.Engine
}
