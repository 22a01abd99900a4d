package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	probeOK       = "ok"
	probeMemory   = "memory"
	probeDisabled = "disabled"
	probeTimeout  = 2 * time.Second
)

// RegisterHealthRoutes reports whether the configured stores are reachable.
// Running without Postgres or Redis is healthy; only a failing store is not.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
		defer cancel()

		report := fiber.Map{
			"postgres": probePostgres(ctx, d),
			"redis":    probeRedis(ctx, d),
		}

		status := fiber.StatusOK
		for _, v := range report {
			switch v {
			case probeOK, probeMemory, probeDisabled:
			default:
				status = fiber.StatusServiceUnavailable
			}
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    report,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}

func probePostgres(ctx context.Context, d Deps) string {
	if d.DB == nil {
		return probeMemory
	}
	if err := d.DB.Ping(ctx); err != nil {
		return err.Error()
	}
	return probeOK
}

func probeRedis(ctx context.Context, d Deps) string {
	if d.Cache == nil {
		return probeDisabled
	}
	if err := d.Cache.Ping(ctx).Err(); err != nil {
		return err.Error()
	}
	return probeOK
}
