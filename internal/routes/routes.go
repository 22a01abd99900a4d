package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/primestyle/primestyle/internal/auth"
	"github.com/primestyle/primestyle/internal/catalog"
	"github.com/primestyle/primestyle/internal/config"
	"github.com/primestyle/primestyle/internal/identity"
	"github.com/primestyle/primestyle/internal/ledger"
	"github.com/primestyle/primestyle/internal/middleware"
	"github.com/primestyle/primestyle/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a
// database every store is in memory.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowOrigins: d.Cfg.CORSOrigin}))
	app.Use(middleware.RequestID())
	// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Stores
	var (
		userRepo   identity.Repository
		surveyRepo catalog.Repository
		ledgerRepo ledger.Repository
	)
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
		surveyRepo = catalog.NewPostgresRepository(d.DB)
		ledgerRepo = ledger.NewPostgresLedger(d.DB)
	} else {
		mem := identity.NewMemoryRepository()
		userRepo = mem
		surveyRepo = catalog.NewMemoryRepository()
		ledgerRepo = ledger.NewInMemory(mem)
	}

	// Services and handlers
	identitySvc := identity.NewService(userRepo)
	catalogSvc := catalog.NewService(surveyRepo)
	seeded, err := catalogSvc.Seed(context.Background())
	if err != nil {
		return err
	}
	if seeded {
		d.Logger.Info("catalog seeded", slog.Int("surveys", len(catalog.DefaultSurveys())))
	}
	engine := ledger.NewEngine(ledgerRepo, catalogSvc, notification.NewLogNotifier(d.Logger), d.Logger)
	tokens := auth.NewTokenService(d.Cfg.JWTSecret, d.Cfg.TokenTTL)

	handlers := Handlers{
		Auth:     auth.NewHandler(identitySvc, tokens, d.Logger),
		Identity: identity.NewHandler(identitySvc),
		Catalog:  catalog.NewHandler(catalogSvc),
		Ledger:   ledger.NewHandler(engine),
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{"ok": true, "name": d.Cfg.AppName})
	})

	api := app.Group("/api")
	RegisterPublicRoutes(api, handlers, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit, d.Logger))
	RegisterProtectedRoutes(api.Group("",
		middleware.Authenticate(tokens),
		middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
	), handlers)

	return nil
}
