package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadilmartias/career-gateway/internal/config"
	"github.com/fadilmartias/career-gateway/internal/domain/fiber/handler"
	"github.com/fadilmartias/career-gateway/internal/logger"
	"github.com/fadilmartias/career-gateway/internal/middleware"
	"github.com/fadilmartias/career-gateway/internal/service"
	"github.com/fadilmartias/career-gateway/internal/usecase"
	"github.com/fadilmartias/career-gateway/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	backendConfig := config.LoadBackendConfig()
	cultureConfig := config.LoadCultureMatchConfig()

	zl, err := logger.New(appConfig.LogJSON, appConfig.LogDebug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer zl.Sync()

	backend := service.NewBackendService(backendConfig)
	culture := service.NewCultureMatcher(cultureConfig, backend, zl)
	uc := usecase.NewForwardUsecase(backend, culture)
	forwardHandler := handler.NewForwardHandler(uc, backendConfig, appConfig.MaxUploadSize, zl)

	app := fiber.New(fiber.Config{
		AppName:      appConfig.Name,
		BodyLimit:    int(appConfig.MaxUploadSize) + 1024*1024,
		ErrorHandler: util.NewErrorHandler(zl),
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(middleware.RequestID())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: appConfig.AllowOrigins,
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return uc.BackendReady(c.UserContext())
		},
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(appConfig.RateLimitMax, appConfig.RateLimitWindow))

	forwardHandler.RegisterRoutes(app)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		zl.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	zl.Info("server starting",
		zap.String("port", appConfig.Port),
		zap.String("env", appConfig.Env),
		zap.String("backend_url", backendConfig.BaseURL),
		zap.String("resume_analysis_url", backendConfig.ResumeAnalysisURL),
		zap.String("culture_match_mode", cultureConfig.Mode),
	)
	if err := app.Listen(appConfig.Port); err != nil {
		zl.Fatal("server failed", zap.Error(err))
	}
}
