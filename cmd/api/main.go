package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hireloop/resume-screener/internal/config"
	"hireloop/resume-screener/internal/handlers"
	"hireloop/resume-screener/internal/logger"
	"hireloop/resume-screener/internal/middleware"
	"hireloop/resume-screener/internal/repositories"
	"hireloop/resume-screener/internal/services"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log)
	logger.Info().Str("env", cfg.Server.Env).Msg("config loaded")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	jobRepo := repositories.NewJobRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)

	ctx := context.Background()

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize gemini client")
	}

	index, err := services.NewCandidateIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		gemini,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize qdrant")
	}
	if err := index.InitCollection(); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize qdrant collection")
	}

	oracle := services.NewOracleScoreProvider(gemini, cfg.Scoring.OracleTimeout, float32(cfg.Scoring.Temperature))
	scorer := services.NewFallbackScorer(oracle, services.NewHeuristicScoreProvider())

	ingestion := services.NewIngestionService(
		services.NewPDFExtractor(),
		services.NewResumeParser(),
		scorer,
	)
	logger.Info().Msg("services initialized")

	jobHandler := handlers.NewJobHandler(jobRepo)
	resumeHandler := handlers.NewResumeHandler(resumeRepo, jobRepo, ingestion, index, cfg.Storage.MaxFileSize)
	searchHandler := handlers.NewSearchHandler(index, resumeRepo)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Company-ID, X-User-ID, X-User-Role",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api := app.Group("/api/v1", middleware.Identity())

	api.Post("/jobs", jobHandler.HandleCreate)
	api.Get("/jobs", jobHandler.HandleList)
	api.Get("/jobs/:id", jobHandler.HandleGet)
	api.Delete("/jobs/:id", middleware.RequireRoles("admin"), jobHandler.HandleDelete)
	api.Get("/jobs/:id/resumes", resumeHandler.HandleListByJob)

	api.Post("/resumes", resumeHandler.HandleUpload)
	api.Get("/resumes/:id", resumeHandler.HandleGet)
	api.Get("/resumes/:id/pdf", resumeHandler.HandleDownloadPDF)
	api.Delete("/resumes/:id", middleware.RequireRoles("admin"), resumeHandler.HandleDelete)
	api.Post("/resumes/search", searchHandler.HandleSearch)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("shutting down server")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server starting")

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
