package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	portsrepo "github.com/edmbank/edmbank_backend/internal/core/ports/repositories"
	portssvc "github.com/edmbank/edmbank_backend/internal/core/ports/services"
	"github.com/edmbank/edmbank_backend/internal/core/services"
	"github.com/edmbank/edmbank_backend/internal/handlers"
	"github.com/edmbank/edmbank_backend/internal/middleware"
	"github.com/edmbank/edmbank_backend/internal/notifier"
	"github.com/edmbank/edmbank_backend/internal/platform/config"
	"github.com/edmbank/edmbank_backend/internal/repositories/database/memory"
	"github.com/edmbank/edmbank_backend/internal/repositories/database/pgsql"
	"github.com/edmbank/edmbank_backend/pkg/database"

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

	repos := buildRepositories(cfg, logger)

	// Change notification: always fan out in-process; additionally push to
	// RabbitMQ when a broker is configured.
	hub := notifier.NewHub()
	publisher := notifier.MultiPublisher{hub}
	if cfg.AMQPURL != "" {
		producer, err := notifier.NewEventPublisher(cfg.AMQPURL, logger)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer producer.Close()
		publisher = append(publisher, producer)
		logger.Info("RabbitMQ event publisher connected.")
	}

	serviceContainer := &portssvc.ServiceContainer{
		Transfer: services.NewTransferService(repos.Account, publisher),
		Account:  services.NewAccountService(repos.Account, publisher),
		Auth:     services.NewAuthService(repos.Account, cfg),
		Support:  services.NewSupportService(repos.SupportRequest),
		Watcher:  hub,
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimitFormat)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	limiterInstance := limiter.New(memorystore.NewStore(), rate)

	handlers.RegisterRoutes(r, cfg, serviceContainer, limiterInstance)

	logger.Info("Starting server", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories connects to Postgres and runs migrations, or falls back
// to the in-memory store when no database URL is configured.
func buildRepositories(cfg *config.Config, logger *slog.Logger) *portsrepo.RepositoryProvider {
	if cfg.DatabaseURL == "" {
		logger.Warn("No database configured, using the in-memory store. Data will not survive a restart.")
		repos, _ := memory.NewRepositoryProvider()
		return repos
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Database connection pool established.")

	runMigrations(cfg, logger)

	return pgsql.NewRepositoryProvider(dbPool)
}

// runMigrations applies all pending "up" migrations through a temporary
// database/sql connection, since golang-migrate does not speak pgxpool.
func runMigrations(cfg *config.Config, logger *slog.Logger) {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		os.Exit(1)
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		os.Exit(1)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
}
