package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceHeader = "x-idempotence"
	idempotenceTTL    = 60 * time.Second
)

// Idempotence rejects a repeated POST while the first one is running and for
// a minute after it succeeded. Requests go through untouched when Redis is
// unavailable.
func Idempotence(rdb redis.Cmdable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet {
			return c.Next()
		}

		key := resolveIdempotenceKey(c)
		if key == "" {
			return c.Next()
		}

		redisKey := fmt.Sprintf("propertyhub:idempotence:%s", key)
		ctx := c.Context()

		acquired, err := rdb.SetNX(ctx, redisKey, "0", idempotenceTTL).Result()
		if err != nil {
			slog.Warn("idempotence check skipped", "error", err)
			return c.Next()
		}
		if !acquired {
			msg := "Duplicate request, try again in a minute."
			if val, _ := rdb.Get(ctx, redisKey).Result(); val == "0" {
				msg = "The same request is still being processed."
			}
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msg})
		}

		nextErr := c.Next()

		status := c.Response().StatusCode()
		if nextErr == nil && status >= 200 && status < 400 {
			rdb.Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			rdb.Del(ctx, redisKey)
		}
		return nextErr
	}
}

func resolveIdempotenceKey(c *fiber.Ctx) string {
	if hdr := c.Get(idempotenceHeader); hdr != "" {
		return hdr
	}

	body := c.Body()
	ua := c.Get(fiber.HeaderUserAgent)
	ip := c.IP()
	auth := c.Get(fiber.HeaderAuthorization)

	if len(body) == 0 && ua == "" && ip == "" && auth == "" {
		return ""
	}

	raw := c.Method() + "|" + c.OriginalURL() + "|" + string(body) + "|" + ua + "|" + ip + "|" + auth
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
