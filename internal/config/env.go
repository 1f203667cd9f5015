package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// accounting defaults; overridable via environment
const (
	defaultTimezone            = "America/New_York"
	defaultAnonymousDailyLimit = 3
	defaultGenerationCost      = 5
	defaultRemixCost           = 5
	defaultDailyBonusAmount    = 30
	defaultSignupBonusAmount   = 50
	defaultThrottleRate        = "60-M"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	jwtSecret := os.Getenv("JWT_SECRET")
	sessionSecret := os.Getenv("SESSION_SECRET")
	environment := os.Getenv("ENVIRONMENT")
	baseURL := os.Getenv("BASE_URL")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &Config{
		DatabaseURL:         databaseURL,
		RedisURL:            redisURL,
		OpenAIKey:           openaiKey,
		JWTSecret:           jwtSecret,
		SessionSecret:       sessionSecret,
		Environment:         environment,
		BaseURL:             baseURL,
		ThrottleRate:        envOrDefault("THROTTLE_RATE", defaultThrottleRate),
		Timezone:            envOrDefault("TIMEZONE", defaultTimezone),
		AnonymousDailyLimit: envIntOrDefault("ANON_DAILY_LIMIT", defaultAnonymousDailyLimit),
		GenerationCost:      envIntOrDefault("GENERATION_COST", defaultGenerationCost),
		RemixCost:           envIntOrDefault("REMIX_COST", defaultRemixCost),
		DailyBonusAmount:    envIntOrDefault("DAILY_BONUS_AMOUNT", defaultDailyBonusAmount),
		SignupBonusAmount:   envIntOrDefault("SIGNUP_BONUS_AMOUNT", defaultSignupBonusAmount),
		ExemptActors:        splitList(os.Getenv("EXEMPT_ACTORS")),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}

	return fallback
}

// parses a comma-separated list, trimming whitespace and dropping empties
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
