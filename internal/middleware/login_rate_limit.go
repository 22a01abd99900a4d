package middleware

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	loginWindow      = time.Minute
	loginKeyPrefix   = "primestyle:login:"
	defaultLoginRate = 5
)

// LoginRateLimit caps login attempts per email (or client IP when the body
// has no email) within a one minute window. It is a no-op without Redis and
// lets requests through when Redis fails.
func LoginRateLimit(cache *redis.Client, maxPerWindow int, logger *slog.Logger) fiber.Handler {
	if maxPerWindow <= 0 {
		maxPerWindow = defaultLoginRate
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		key := loginKeyPrefix + loginSubject(c)
		ctx := c.UserContext()

		count, err := cache.Incr(ctx, key).Result()
		if err == nil && count == 1 {
			err = cache.Expire(ctx, key, loginWindow).Err()
		}
		if err != nil {
			logger.WarnContext(ctx, "login rate limit unavailable", slog.Any("error", err))
			return c.Next()
		}

		if count > int64(maxPerWindow) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(loginWindow.Seconds())))
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many login attempts, try again later")
		}
		return c.Next()
	}
}

func loginSubject(c *fiber.Ctx) string {
	var body struct {
		Email string `json:"email"`
	}
	_ = c.BodyParser(&body)
	if email := strings.TrimSpace(body.Email); email != "" {
		return "email:" + email
	}
	return "ip:" + c.IP()
}
