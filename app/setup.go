package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/biosecret/go-todo/config"
	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/router"
	"github.com/biosecret/go-todo/services"
)

// Store is a backend holding both users and todos.
type Store interface {
	services.UserStore
	services.TodoStore
}

// New builds the Fiber application on top of store. pinger may be nil.
func New(cfg *config.Config, store Store, pinger handlers.Pinger) (*fiber.App, error) {
	tokens, err := services.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	h := handlers.New(
		services.NewAuthService(store, tokens, cfg.BcryptCost),
		services.NewTodoService(store),
		services.NewUserService(store),
		pinger,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))

	router.SetupRoutes(app, h, tokens, cfg.APIPrefix)
	config.AddSwaggerRoutes(app, cfg.APIPrefix)

	return app, nil
}

// OpenStore returns the backend selected by cfg and a function releasing it.
// Postgres is migrated before it is returned.
func OpenStore(ctx context.Context, cfg *config.Config) (Store, handlers.Pinger, func() error, error) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory store, data is lost on exit")
		return database.NewMemory(), nil, func() error { return nil }, nil
	}

	pg, err := database.StartPostgreSQL(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, nil, nil, err
	}
	return pg, pg, pg.Close, nil
}

// SetupAndRunApp opens the store and serves the API until the listener fails.
func SetupAndRunApp(ctx context.Context, cfg *config.Config) error {
	SetLogLevel(cfg.LogLevel)

	store, pinger, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	app, err := New(cfg, store, pinger)
	if err != nil {
		return err
	}

	log.Infow("starting server", "port", cfg.Port, "store", cfg.Store, "prefix", cfg.APIPrefix)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// SetLogLevel maps a textual level onto fiber's logger.
func SetLogLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		log.SetLevel(log.LevelTrace)
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn", "warning":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}
}
