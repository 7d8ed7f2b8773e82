package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amund211/awardtracker/internal/adapters/cache"
	"github.com/Amund211/awardtracker/internal/adapters/catalog"
	"github.com/Amund211/awardtracker/internal/adapters/database"
	"github.com/Amund211/awardtracker/internal/adapters/notifier"
	"github.com/Amund211/awardtracker/internal/adapters/progressrepository"
	"github.com/Amund211/awardtracker/internal/app"
	"github.com/Amund211/awardtracker/internal/config"
	"github.com/Amund211/awardtracker/internal/domain"
	"github.com/Amund211/awardtracker/internal/events"
	"github.com/Amund211/awardtracker/internal/logging"
	"github.com/Amund211/awardtracker/internal/ports"
	"github.com/Amund211/awardtracker/internal/progress"
	"github.com/Amund211/awardtracker/internal/registry"
	"github.com/Amund211/awardtracker/internal/reporting"
	"github.com/Amund211/awardtracker/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "golang.org/x/crypto/x509roots/fallback"
)

const serviceName = "awardtracker"

func main() {
	instanceID := uuid.New().String()

	config, configErr := config.ConfigFromEnv()

	// A zero config logs at info level
	logger := logging.New(os.Stdout, config.LogLevel()).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	if configErr != nil {
		fail("Failed to load config", "error", configErr.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.AddToContext(ctx, logger)

	if config.OTelEnabled() {
		traceSampleRatio := 1.0
		if config.IsProduction() {
			traceSampleRatio = 0.05
		}
		shutdownTelemetry, err := telemetry.SetupOTelSDK(ctx, telemetry.Service{
			Name:             serviceName,
			InstanceID:       instanceID,
			Environment:      config.Environment(),
			TraceSampleRatio: traceSampleRatio,
		})
		if err != nil {
			fail("Failed to initialize telemetry", "error", err.Error())
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				logger.Error("Failed to shut down telemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized telemetry")
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config, instanceID)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	repo, err := newProgressRepository(ctx, config, logger)
	if err != nil {
		fail("Failed to initialize progress repository", "error", err.Error())
	}
	logger.Info("Initialized progress repository", "storage", string(config.Storage()))

	awardRegistry := registry.New()

	if config.CatalogPath() != "" {
		definitions, err := catalog.LoadFile(config.CatalogPath())
		if err != nil {
			fail("Failed to load award catalog", "error", err.Error())
		}
		added := catalog.Apply(ctx, awardRegistry, definitions)
		logger.Info("Loaded award catalog", "path", config.CatalogPath(), "added", added)

		watcher, err := catalog.Watch(ctx, config.CatalogPath(), awardRegistry)
		if err != nil {
			fail("Failed to watch award catalog", "error", err.Error())
		}
		defer watcher.Close()
	}

	var clientNotifier progress.ClientNotifier
	if config.NotifyURL() != "" {
		httpClient := &http.Client{
			Timeout: 5 * time.Second,
		}
		clientNotifier = notifier.NewWebhook(httpClient, config.NotifyURL())
		logger.Info("Sending unlock notifications to host runtime", "url", config.NotifyURL())
	} else {
		clientNotifier = notifier.NewLog(logger.With("component", "notifier"))
	}

	bus := events.NewBus()
	bus.Subscribe(events.NewUnlockLogger(logger.With("component", "unlocks")))
	unlockMetricsRecorder, err := events.NewUnlockMetricsRecorder()
	if err != nil {
		fail("Failed to initialize unlock metrics", "error", err.Error())
	}
	bus.Subscribe(unlockMetricsRecorder)

	store, err := progress.NewStore(awardRegistry, repo, clientNotifier, bus, time.Now)
	if err != nil {
		fail("Failed to initialize progress store", "error", err.Error())
	}

	offlineCache := cache.NewTTLCache[[]domain.PlayerAward](1 * time.Minute)

	allowedOrigins, err := ports.ParseDomainSuffixes(config.CORSOrigins())
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	connectPlayer := app.BuildConnectPlayer(store, offlineCache)
	disconnectPlayer := app.BuildDisconnectPlayer(store, offlineCache)
	updateProgress := app.BuildUpdateProgress(store)
	unlockAward := app.BuildUnlockAward(store)
	lockAward := app.BuildLockAward(store)
	removeAward := app.BuildRemoveAward(store)
	removeAllAwards := app.BuildRemoveAllAwards(store)
	getPlayerAwards := app.BuildGetPlayerAwardsWithCache(store, offlineCache, repo)
	listAwards := app.BuildListAwards(awardRegistry)
	getAward := app.BuildGetAward(awardRegistry)

	mux := http.NewServeMux()

	mux.HandleFunc(
		"POST /v1/players/{player}/connect",
		ports.MakeConnectPlayerHandler(connectPlayer, logger, sentryMiddleware),
	)
	mux.HandleFunc(
		"POST /v1/players/{player}/disconnect",
		ports.MakeDisconnectPlayerHandler(disconnectPlayer, logger, sentryMiddleware),
	)

	mux.HandleFunc(
		"POST /v1/players/{player}/awards/{award}/progress",
		ports.MakeUpdateProgressHandler(updateProgress, logger, sentryMiddleware),
	)
	mux.HandleFunc(
		"POST /v1/players/{player}/awards/{award}/unlock",
		ports.MakeAwardActionHandler("unlock", unlockAward, logger, sentryMiddleware),
	)
	mux.HandleFunc(
		"POST /v1/players/{player}/awards/{award}/lock",
		ports.MakeAwardActionHandler("lock", lockAward, logger, sentryMiddleware),
	)
	mux.HandleFunc(
		"DELETE /v1/players/{player}/awards/{award}",
		ports.MakeAwardActionHandler("remove", removeAward, logger, sentryMiddleware),
	)
	mux.HandleFunc(
		"DELETE /v1/players/{player}/awards",
		ports.MakeRemoveAllAwardsHandler(removeAllAwards, logger, sentryMiddleware),
	)

	mux.HandleFunc(
		"OPTIONS /v1/players/{player}/awards",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /v1/players/{player}/awards",
		ports.MakeGetPlayerAwardsHandler(getPlayerAwards, allowedOrigins, logger, sentryMiddleware),
	)

	mux.HandleFunc(
		"OPTIONS /v1/awards",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /v1/awards",
		ports.MakeListAwardsHandler(listAwards, allowedOrigins, logger, sentryMiddleware),
	)

	mux.HandleFunc(
		"OPTIONS /v1/awards/{award}",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"GET /v1/awards/{award}",
		ports.MakeGetAwardHandler(getAward, allowedOrigins, logger, sentryMiddleware),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Port()),
		Handler:           otelhttp.NewHandler(mux, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	logger.Info("Init complete", "port", config.Port())

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			fail("Server error", "error", err.Error())
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(logging.AddToContext(context.Background(), logger), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server", "error", err.Error())
	}

	// Every mutation is already persisted
	store.UnloadAll(shutdownCtx)

	logger.Info("Server shutdown")
}

type progressRepository interface {
	progress.ProgressRepository
	app.StoredAwardsLoader
}

func newProgressRepository(ctx context.Context, conf config.Config, logger *slog.Logger) (progressRepository, error) {
	switch conf.Storage() {
	case config.StorageFile:
		return progressrepository.NewFile(conf.SaveDir(), progressrepository.WithQuarantine())
	case config.StorageMemory:
		return progressrepository.NewMemory(), nil
	case config.StoragePostgres:
		connectionString, err := database.ConnectionString(conf.DBConnectionString(), conf.IsDevelopment())
		if err != nil {
			return nil, err
		}

		logger.Info("Initializing database connection")
		db, err := database.NewPostgresDatabase(connectionString)
		if err != nil {
			return nil, err
		}

		schemaName := database.GetSchemaName(!conf.IsProduction())

		_, err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		return progressrepository.NewPostgres(db, schemaName, time.Now), nil
	}

	return nil, fmt.Errorf("unknown storage backend: %s", conf.Storage())
}
