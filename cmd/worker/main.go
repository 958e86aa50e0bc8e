package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ArowuTest/groupbuy-backend/internal/adjudicator"
	"github.com/ArowuTest/groupbuy-backend/internal/config"
	mongorepo "github.com/ArowuTest/groupbuy-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/groupbuy-backend/internal/services"
	"github.com/ArowuTest/groupbuy-backend/pkg/beacon"
	"github.com/ArowuTest/groupbuy-backend/pkg/mongodb"
	"github.com/ArowuTest/groupbuy-backend/pkg/webhook"
	"golang.org/x/exp/slog"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	sessionRepo := mongorepo.NewSessionRepository(db)
	participantRepo := mongorepo.NewParticipantRepository(db)

	var beaconSource beacon.Source
	if cfg.Beacon.Enabled {
		beaconSource = beacon.NewClient(cfg.Beacon.BaseURL, cfg.Beacon.Timeout)
	}
	var notifier webhook.Notifier = webhook.NoopNotifier{}
	if cfg.Webhook.Enabled {
		notifier = webhook.NewHTTPNotifier(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout)
	}

	auditService := services.NewAuditService(mongorepo.NewAuditLogRepository(db))
	sessionService := services.NewSessionService(sessionRepo, participantRepo, auditService, beaconSource, cfg)
	poolService := services.NewSessionPoolService(mongorepo.NewSessionPoolRepository(db), sessionRepo, auditService, cfg)
	adjudicationService := services.NewAdjudicationService(
		adjudicator.NewEngine(cfg.Adjudication.AlgorithmVersion),
		sessionRepo, participantRepo, mongorepo.NewAdjudicationRepository(db),
		poolService, auditService, notifier,
	)

	services.NewWorker(poolService, sessionService, adjudicationService, cfg.Worker.PollInterval).Run(ctx)
}
