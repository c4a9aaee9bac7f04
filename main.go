package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bilgin-chat/config"
	"bilgin-chat/handlers"
	"bilgin-chat/routing"
	"bilgin-chat/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	cfg := config.LoadConfig()

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})
	slog.SetDefault(slog.New(logHandler))

	// Initialize MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := services.InitMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer db.Disconnect(context.Background())

	store := services.NewMongoStore(db, cfg.DatabaseName)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	router := routing.NewRouter(buildProviders(cfg), cfg.RouterConfig(), slog.Default())

	// Remove conversations that never got a message
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	services.StartConversationCleanup(cleanupCtx, store, cfg.StaleConversationTTL, time.Hour)

	maxUploadBytes := int64(cfg.MaxUploadMB) << 20

	// Create Fiber app
	app := fiber.New(fiber.Config{
		// multipart framing on top of the largest accepted file
		BodyLimit: int(maxUploadBytes) + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code, "path", c.Path())
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		MaxAge:       86400, // 24 hours
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	handlers.RegisterRoutes(app, handlers.Deps{
		Store:          store,
		Router:         router,
		Hub:            services.DefaultConversationHub(),
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: maxUploadBytes,
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		status, database := "ok", "ok"
		if err := store.Ping(pingCtx); err != nil {
			slog.Warn("Health check: MongoDB unreachable", "error", err)
			status, database = "degraded", "unreachable"
		}
		return c.JSON(fiber.Map{
			"status":   status,
			"service":  "bilgin-chat",
			"database": database,
		})
	})

	slog.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

// buildProviders creates a client for every configured provider. Unconfigured
// ones stay nil so the router skips them.
func buildProviders(cfg *config.Config) routing.Providers {
	var p routing.Providers
	if cfg.RAGPro.Configured() {
		p.ProRAG = services.NewAnythingLLMClient(string(routing.ProviderRAGPro), cfg.RAGPro)
	}
	if cfg.RAGFree.Configured() {
		p.FreeRAG = services.NewAnythingLLMClient(string(routing.ProviderRAGFree), cfg.RAGFree)
	}
	if cfg.LLM.Configured() {
		p.LLM = services.NewChatCompletionClient(string(routing.ProviderLLM), cfg.LLM)
	}
	if cfg.Search.Configured() {
		p.Search = services.NewSerperClient(cfg.Search, cfg.SearchRPM)
	}
	if cfg.Localizer.Configured() {
		p.Localizer = services.NewLocalizer(services.NewChatCompletionClient(string(routing.ProviderLocalizer), cfg.Localizer))
	}
	return p
}
