package main

import (
	"context"
	"os"
	"time"

	"github.com/ArowuTest/groupbuy-backend/internal/config"
	mongorepo "github.com/ArowuTest/groupbuy-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/groupbuy-backend/internal/services"
	"github.com/ArowuTest/groupbuy-backend/internal/utils"
	"github.com/ArowuTest/groupbuy-backend/pkg/mongodb"
	"golang.org/x/exp/slog"
)

// seedpool loads session pool entries from a CSV file into MongoDB.
//
//	go run ./cmd/scripts/seedpool pool.csv
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.LogLevel)

	if len(os.Args) < 2 {
		slog.Error("CSV file path is required as a command line argument")
		os.Exit(1)
	}
	csvFilePath := os.Args[1]

	file, err := os.Open(csvFilePath)
	if err != nil {
		slog.Error("Failed to open CSV file", "path", csvFilePath, "error", err)
		os.Exit(1)
	}
	defer file.Close()

	result, err := utils.ParsePoolCSV(file, time.Now())
	if err != nil {
		slog.Error("Failed to parse CSV file", "path", csvFilePath, "error", err)
		os.Exit(1)
	}
	for _, rowErr := range result.Errors {
		slog.Warn("Skipped row", "detail", rowErr)
	}

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB.Database)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	auditService := services.NewAuditService(mongorepo.NewAuditLogRepository(db))
	poolService := services.NewSessionPoolService(
		mongorepo.NewSessionPoolRepository(db),
		mongorepo.NewSessionRepository(db),
		auditService,
		cfg,
	)

	created := 0
	for _, entry := range result.Entries {
		if err := poolService.CreateEntry(ctx, entry); err != nil {
			slog.Error("Failed to create pool entry", "productId", entry.ProductID, "type", entry.Type, "error", err)
			continue
		}
		created++
	}

	slog.Info("Pool import finished",
		"rows", result.TotalRows,
		"rowErrors", len(result.Errors),
		"entriesParsed", len(result.Entries),
		"entriesCreated", created,
	)
}
