package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-identity/pkg/response"
)

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(c *gin.Context) string

// KeyByIP returns a key function that limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath returns a key function that limits by client IP and request path
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID limits authenticated callers by user id and everyone else by
// IP. It must run after Auth.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid, ok := UserID(c)
		if !ok {
			return "rl:user:anon:ip:" + ipFromCtx(c)
		}
		return "rl:user:" + uid.String()
	}
}

// hitScript increments the counter, starts its window on the first hit and
// returns the count with the window's remaining milliseconds.
var hitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// AllowFunc reports whether a request bypasses the limiter.
type AllowFunc func(*gin.Context) bool

// hit records one request against key.
func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (count int64, reset time.Duration, err error) {
	vals, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("rate limit: unexpected script reply %v", vals)
	}
	if vals[1] > 0 {
		reset = time.Duration(vals[1]) * time.Millisecond
	}
	return vals[0], reset, nil
}

// RateLimit is a fixed-window limiter backed by Redis. It sets the
// X-RateLimit-* headers and answers 429 once max is exceeded. Redis errors
// let the request through.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(max)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		count, reset, err := hit(c, rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}
		resetSec := int(math.Ceil(reset.Seconds()))
		remaining := int64(max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > int64(max) {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}
