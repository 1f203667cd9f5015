package throttle

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"codeberg.org/pixelforge/server/internal/errors"
)

// per-IP request throttle in front of the API
//
// this is transport-level protection against floods and scrapers. it is
// separate from credit accounting: a request that passes the throttle can
// still be denied by the accounting engine, and a throttled request never
// reaches the ledger.

// returns a Gin middleware that rejects clients exceeding the given rate.
// the rate uses limiter's formatted syntax, e.g. "60-M" for 60 requests
// per minute per client IP. state lives in Redis so the limit holds across
// server replicas.
func Middleware(client *redis.Client, formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("failed to parse throttle rate %q: %w", formatted, err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: "pixelforge:throttle",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create throttle store: %w", err)
	}

	instance := limiter.New(store, rate)

	middleware := mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "too many requests, slow down")
		}),
	)

	return middleware, nil
}
