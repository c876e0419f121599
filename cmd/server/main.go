package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinesight-backend/internal/app"
	"dinesight-backend/internal/clock"
	"dinesight-backend/internal/config"
	"dinesight-backend/internal/database"
	"dinesight-backend/internal/middleware"
	"dinesight-backend/pkg/logger"
	"dinesight-backend/pkg/tracing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.ServiceName, cfg.Environment, cfg.IsDevelopment())
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Logger.Warn().Err(err).Str("level", cfg.LogLevel).Msg("Bilinmeyen log seviyesi, info kullanılıyor")
	}

	if err := cfg.Validate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Geçersiz konfigürasyon")
	}

	logger.Logger.Info().
		Str("driver", cfg.DBDriver).
		Msg("Starting dinesight backend")

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracing.Shutdown(ctx, tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
				}
			}()
		}
	}

	db := database.Init(cfg, clock.System)

	application, err := app.InitializeApp(db, clock.System, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Uygulama başlatılamadı")
	}

	// stok dışarıdan değişmiş olabilir; bayrakları açılışta tazele
	changed, err := application.Engine.RecomputeAll(context.Background())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Başlangıç uygunluk hesabı başarısız")
	}
	logger.Logger.Info().Int("changed", changed).Msg("Menu availability recomputed")

	srv := fiber.New(fiber.Config{
		AppName:      "dinesight-backend",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.Error(c.UserContext()).Err(err).Str("path", c.Path()).Msg("Unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	srv.Use(recover.New())
	srv.Use(requestid.New())
	srv.Use(middleware.Tracing(cfg.ServiceName))
	srv.Use(middleware.Correlation())
	srv.Use(middleware.StructuredLogging())
	srv.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-Id, traceparent, tracestate",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	srv.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	srv.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	application.RegisterRoutes(srv.Group("/api"))

	go func() {
		logger.Logger.Info().Str("port", cfg.HTTPPort).Msg("Server çalışıyor")
		if err := srv.Listen(":" + cfg.HTTPPort); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Server başlatılamadı")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down")
	if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}
