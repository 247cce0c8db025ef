package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/denimworks/qc-engine/pkg/config"
	"github.com/denimworks/qc-engine/pkg/database"
	"github.com/denimworks/qc-engine/pkg/handlers"
	"github.com/denimworks/qc-engine/pkg/logging"
	"github.com/denimworks/qc-engine/pkg/middleware"
	"github.com/denimworks/qc-engine/pkg/repositories"
	"github.com/denimworks/qc-engine/pkg/services"
	"github.com/denimworks/qc-engine/pkg/vision"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load .env for local development; absence is fine in production.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("vision_provider", cfg.Vision.Provider),
		zap.String("vision_model", cfg.Vision.Model))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Migrations run through database/sql (required by golang-migrate).
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	analyzer, err := vision.NewAnalyzer(&cfg.Vision, logger)
	if err != nil {
		logger.Fatal("Failed to create vision analyzer", zap.Error(err))
	}

	batchRepo := repositories.NewBatchRepository(db)
	productRepo := repositories.NewProductRepository(db)
	inspectionRepo := repositories.NewInspectionRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	analysisService := services.NewAnalysisService(analyzer, batchRepo, productRepo, inspectionRepo, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAnalyzeHandler(analysisService, logger).RegisterRoutes(mux)
	handlers.NewInspectionHandler(analysisService, inspectionRepo, logger).RegisterRoutes(mux)
	handlers.NewStatsHandler(statsRepo, batchRepo, logger).RegisterRoutes(mux)
	handlers.NewBatchHandler(batchRepo, logger).RegisterRoutes(mux)

	handler := middleware.RequestID()(middleware.RequestLogger(logger)(mux))

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting qc-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
