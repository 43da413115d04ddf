package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/facility-reservation/internal/config"
)

// RateLimit returns a fixed-window limiter backed by Redis.  Each
// window is a counter keyed by client identity and route; the first
// INCR sets the expiry.  When Redis is unreachable the limiter fails
// open so the booking path never depends on cache availability.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := rateKey(cfg.Prefix, c)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				ttl, _ := rdb.TTL(ctx, key).Result()
				secs := int(ttl / time.Second)
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// rateKey identifies the caller: authenticated requests count per
// user, anonymous ones per IP.  The route keeps heavy endpoints from
// starving cheap ones.
func rateKey(prefix string, c echo.Context) string {
	who := c.RealIP()
	if uid := c.Get("user_id"); uid != nil {
		who = fmt.Sprint(uid)
	}
	return fmt.Sprintf("%s:%s:%s %s", prefix, who, c.Request().Method, c.Path())
}
