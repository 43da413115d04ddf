package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/facility-reservation/internal/config"
)

// bodyRecorder tees the response body so a successful reply can be
// stored after the handler runs.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseCache caches successful GET responses in Redis for a short
// TTL.  Intended for the public catalogue endpoints where slightly
// stale data is acceptable; never mount it on the booking routes.
// Hits and misses are reported via the X-Cache header.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cfg.Prefix + ":" + c.Request().URL.RequestURI()

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			} else if err != redis.Nil {
				// Redis down: serve uncached rather than fail.
				return next(c)
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if rec.status == http.StatusOK && rec.buf.Len() > 0 {
				rdb.Set(ctx, key, rec.buf.Bytes(), ttlOrDefault(cfg.TTL))
			}
			return nil
		}
	}
}

// ttlOrDefault guards against a zero TTL leaving keys behind forever.
func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 30 * time.Second
	}
	return ttl
}
