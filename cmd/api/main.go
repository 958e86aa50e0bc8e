package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ArowuTest/groupbuy-backend/api/routes"
	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/config"
	"github.com/ArowuTest/groupbuy-backend/internal/handlers"
	mongorepo "github.com/ArowuTest/groupbuy-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/groupbuy-backend/internal/services"
	"github.com/ArowuTest/groupbuy-backend/pkg/beacon"
	"github.com/ArowuTest/groupbuy-backend/pkg/jwt"
	"github.com/ArowuTest/groupbuy-backend/pkg/mongodb"
	"github.com/ArowuTest/groupbuy-backend/pkg/webhook"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.LogLevel)
	if cfg.JWT.Secret == "" {
		slog.Error("JWT_SECRET is not configured")
		os.Exit(1)
	}

	ctx := context.Background()
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Repositories
	sessionRepo := mongorepo.NewSessionRepository(db)
	participantRepo := mongorepo.NewParticipantRepository(db)
	adjudicationRepo := mongorepo.NewAdjudicationRepository(db)
	poolRepo := mongorepo.NewSessionPoolRepository(db)
	adminRepo := mongorepo.NewAdminUserRepository(db)
	auditRepo := mongorepo.NewAuditLogRepository(db)

	// Services
	var beaconSource beacon.Source
	if cfg.Beacon.Enabled {
		beaconSource = beacon.NewClient(cfg.Beacon.BaseURL, cfg.Beacon.Timeout)
	}
	var notifier webhook.Notifier = webhook.NoopNotifier{}
	if cfg.Webhook.Enabled {
		notifier = webhook.NewHTTPNotifier(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout)
	}
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenTTL())

	auditService := services.NewAuditService(auditRepo)
	sessionService := services.NewSessionService(sessionRepo, participantRepo, auditService, beaconSource, cfg)
	poolService := services.NewSessionPoolService(poolRepo, sessionRepo, auditService, cfg)
	adjudicationService := services.NewAdjudicationService(
		adjudicator.NewEngine(cfg.Adjudication.AlgorithmVersion),
		sessionRepo, participantRepo, adjudicationRepo,
		poolService, auditService, notifier,
	)
	authService := services.NewAuthService(adminRepo, tokens)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:         handlers.NewAuthHandler(authService),
		SessionHandler:      handlers.NewSessionHandler(sessionService),
		AdjudicationHandler: handlers.NewAdjudicationHandler(adjudicationService),
		PoolHandler:         handlers.NewPoolHandler(poolService),
		AuditHandler:        handlers.NewAuditHandler(auditService),
		Tokens:              tokens,
		HealthCheck: func(c *gin.Context) error {
			return mongoClient.Ping(c.Request.Context())
		},
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "algorithmVersion", cfg.Adjudication.AlgorithmVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server exiting")
}
