package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/eduflow-api/api/swagger"
	"github.com/noah-isme/eduflow-api/internal/advisor"
	"github.com/noah-isme/eduflow-api/internal/handler"
	"github.com/noah-isme/eduflow-api/internal/middleware"
	"github.com/noah-isme/eduflow-api/internal/routes"
	"github.com/noah-isme/eduflow-api/internal/service"
	"github.com/noah-isme/eduflow-api/pkg/config"
	"github.com/noah-isme/eduflow-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/eduflow-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/eduflow-api/pkg/middleware/requestid"
)

// @title EduFlow API
// @version 1.0.0
// @description Multi-tenant school management: rosters, attendance, fees, salaries and AI insights.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer backend.close()

	adv, closeAdvisor := newAdvisor(ctx, cfg, logr)
	defer closeAdvisor()

	metrics := service.NewMetricsService()
	app := service.NewContainer(backend.stores, adv, metrics, service.ContainerConfig{
		Auth: service.AuthConfig{
			AccessTokenSecret: cfg.JWT.Secret,
			AccessTokenExpiry: cfg.JWT.Expiration,
			Issuer:            cfg.JWT.Issuer,
		},
		CacheTTL:  cfg.Dashboard.CacheTTL,
		Dashboard: service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
		Insights: service.InsightServiceConfig{
			Workers:    cfg.Insights.Workers,
			JobTimeout: cfg.Insights.Timeout,
			ResultTTL:  cfg.Insights.ResultTTL,
		},
	}, logr)

	app.Insights.Start(ctx)
	defer app.Insights.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	routes.Setup(r, cfg.APIPrefix, routes.Handlers{
		Auth:       handler.NewAuthHandler(app.Auth),
		Institutes: handler.NewInstituteHandler(app.Institutes),
		Students:   handler.NewStudentHandler(app.Students),
		Teachers:   handler.NewTeacherHandler(app.Teachers),
		Classes:    handler.NewClassHandler(app.Classes),
		Attendance: handler.NewAttendanceHandler(app.Attendance),
		Payments:   handler.NewPaymentHandler(app.Payments),
		Finance:    handler.NewFinanceHandler(app.Finance, app.Salaries, app.Exports),
		Dashboard:  handler.NewDashboardHandler(app.Dashboard),
		Insights:   handler.NewInsightHandler(app.Insights),
		Health:     handler.NewHealthHandler(backend.readiness, logr),
		Metrics:    handler.NewMetricsHandler(metrics.Handler()),
	}, routes.Dependencies{
		Authenticator: app.Auth,
		Audit:         backend.stores.Audit,
		Logger:        logr,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newAdvisor dials Gemini when an API key is configured. Without one the
// advisor answers with its not-configured text.
func newAdvisor(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*advisor.Advisor, func()) {
	if cfg.Insights.GeminiAPIKey == "" {
		logr.Info("gemini api key not set; insights disabled")
		return advisor.New(nil, cfg.Insights.Timeout, logr.Named("advisor")), func() {}
	}
	gemini, err := advisor.NewGeminiGenerator(ctx, cfg.Insights.GeminiAPIKey, cfg.Insights.GeminiModel)
	if err != nil {
		logr.Warn("gemini client unavailable; insights disabled", zap.Error(err))
		return advisor.New(nil, cfg.Insights.Timeout, logr.Named("advisor")), func() {}
	}
	return advisor.New(gemini, cfg.Insights.Timeout, logr.Named("advisor")), func() {
		if err := gemini.Close(); err != nil {
			logr.Warn("close gemini client", zap.Error(err))
		}
	}
}
