package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
	"github.com/payoff-app/payoff-backend/internal/core/services"
	"github.com/payoff-app/payoff-backend/internal/handlers"
	"github.com/payoff-app/payoff-backend/internal/middleware"
	"github.com/payoff-app/payoff-backend/internal/platform/config"
	"github.com/payoff-app/payoff-backend/internal/repositories/cache"
	"github.com/payoff-app/payoff-backend/internal/repositories/database/pgsql"
	"github.com/payoff-app/payoff-backend/pkg/database"
)

// @title Payoff Backend API
// @version 1.0
// @description REST backend for the Payoff debt tracker.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// The mobile client expects money fields as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

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
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repoContainer := pgsql.NewRepositoryContainer(dbPool)
	inboxStore := newInboxStore(logger, cfg)

	serviceContainer := services.NewServiceContainer(cfg, services.Repositories{
		User:   repoContainer.User,
		Debt:   repoContainer.Debt,
		Backup: repoContainer.Backup,
		Inbox:  inboxStore,
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowOrigins) == 1 && cfg.CORSAllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newInboxStore picks Redis when configured and verifies the connection,
// falling back to process memory otherwise.
func newInboxStore(logger *slog.Logger, cfg *config.Config) portsrepo.InboxStore {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-memory notification inbox store")
		return cache.NewMemoryInboxStore()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis unreachable, falling back to in-memory inbox store",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()))
		return cache.NewMemoryInboxStore()
	}
	logger.Info("Using Redis notification inbox store", slog.String("addr", cfg.RedisAddr))
	return cache.NewRedisInboxStore(client, cfg.InboxTTL)
}

// runMigrations applies any pending schema migrations over a temporary
// database/sql connection; the pgx stdlib driver keeps it compatible with
// the main pool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

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

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
