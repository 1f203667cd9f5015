package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"codeberg.org/pixelforge/server/internal/auth"
	"codeberg.org/pixelforge/server/pixelforge/users"
)

// creates (or reuses) a test user and prints a JWT for it, for poking at
// authenticated endpoints from curl or the TUI
func main() {
	// load environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// connect to database
	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		log.Fatal("DATABASE_URL not set")
	}

	dbPool, err := pgxpool.New(context.Background(), dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	ctx := context.Background()
	userRepo := users.NewRepository(dbPool)

	// create or find test user; a fresh one gets the signup grant so it can
	// actually spend
	user, created, err := userRepo.FindOrCreateByProvider(
		ctx, "test", "test-user-123", "test@pixelforge.dev", "Test User", "", 50,
	)
	if err != nil {
		log.Fatalf("Failed to create test user: %v", err)
	}

	if created {
		fmt.Printf("Created test user: %s (ID: %s)\n", user.Email, user.ID)
	} else {
		fmt.Printf("Using existing test user (ID: %s)\n", user.ID)
	}

	// generate JWT token
	token, err := auth.GenerateJWT(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		log.Fatalf("Failed to generate JWT: %v", err)
	}

	fmt.Printf("\nTest JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for testing:\nexport PIXELFORGE_TOKEN=\"%s\"\n", token)
}
