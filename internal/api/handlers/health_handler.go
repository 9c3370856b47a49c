package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func Health(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}
