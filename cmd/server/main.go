package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/arturoeanton/gitfolio-ai/internal/adapter/ai"
	"github.com/arturoeanton/gitfolio-ai/internal/adapter/store"
	"github.com/arturoeanton/gitfolio-ai/internal/adapter/vcs"
	"github.com/arturoeanton/gitfolio-ai/internal/analysis"
	"github.com/arturoeanton/gitfolio-ai/internal/handler"
	"github.com/arturoeanton/gitfolio-ai/internal/service"
	"github.com/arturoeanton/gitfolio-ai/internal/summarize"
	"github.com/arturoeanton/gitfolio-ai/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("🚀 Starting GitFolio AI",
		"port", cfg.Port,
		"ollama_chat", cfg.OllamaChatURL,
		"model", cfg.OllamaChatModel,
		"fetch_batch_size", cfg.FetchBatchSize,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	githubSource := vcs.NewGitHubProvider(cfg.GitHubToken)
	ollamaAI := ai.NewOllamaProvider(ai.OllamaConfig{
		BaseURL: cfg.OllamaChatURL,
		Model:   cfg.OllamaChatModel,
		Token:   cfg.OllamaChatToken,
	})

	// ── Pipeline ─────────────────────────────────────────────────────────
	fetcher := analysis.NewBatchedContentFetcher(githubSource, analysis.FetcherConfig{
		BatchSize:    cfg.FetchBatchSize,
		MaxFiles:     cfg.FetchMaxFiles,
		MaxFileBytes: cfg.FetchMaxFileBytes,
		BatchDelay:   cfg.FetchBatchDelay,
	})
	composer := summarize.NewSummaryComposer(ollamaAI, cfg.MaxCompletionTokens)
	summaryService := service.NewSummaryService(githubSource, pgStore, pgStore, fetcher, composer)
	registryService := service.NewRegistryService(pgStore, pgStore)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	api := app.Group("/api/v1")

	jobTracker := handler.NewJobTracker()

	registryHandler := handler.NewRegistryHandler(registryService)
	registryHandler.Register(api)

	summaryHandler := handler.NewSummaryHandler(summaryService, jobTracker)
	summaryHandler.Register(api)

	jobsHandler := handler.NewJobsHandler(jobTracker)
	jobsHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
