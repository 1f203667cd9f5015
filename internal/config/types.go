package config

// Config holds everything the server reads from the environment at startup
type Config struct {
	DatabaseURL   string
	RedisURL      string
	OpenAIKey     string
	JWTSecret     string
	SessionSecret string
	Environment   string
	BaseURL       string

	// transport throttle, e.g. "60-M" for 60 requests/minute per IP
	ThrottleRate string

	// credit accounting surface
	Timezone            string
	AnonymousDailyLimit int
	GenerationCost      int
	RemixCost           int
	DailyBonusAmount    int
	SignupBonusAmount   int
	ExemptActors        []string
}
