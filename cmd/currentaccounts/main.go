package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/clients"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/services"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/handlers"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/middleware"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/repositories/database/pgsql"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/pkg/config"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLogging(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Stores and remote collaborators.
	accountRepo := pgsql.NewAccountRepository(dbPool)
	transactionRepo := pgsql.NewTransactionRepository(dbPool)
	sequenceRepo := pgsql.NewSequenceRepository(dbPool)
	creditGateway := clients.NewCreditClient(cfg.GatewayURL, cfg.GatewayTimeout, cfg.BreakerFailureThreshold)
	peerGateway := clients.NewPeerAccountClient(cfg.GatewayURL, cfg.GatewayTimeout, cfg.BreakerFailureThreshold)

	// Core services.
	accountSvc := services.NewAccountService(accountRepo, transactionRepo, sequenceRepo, creditGateway, cfg.MinimumOpeningAmount)
	transactionSvc := services.NewTransactionService(accountRepo, transactionRepo, sequenceRepo, cfg.ComissionFreeMaxTransactions)
	transferSvc := services.NewTransferService(accountRepo, transactionRepo, transactionSvc, peerGateway)

	handlers.RegisterRoutes(r, accountSvc, transactionSvc, transferSvc)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies pending schema migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
