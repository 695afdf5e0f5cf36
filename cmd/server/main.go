package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"quickride/internal/app"
	"quickride/internal/catalog"
	"quickride/internal/config"
	"quickride/internal/fare"
	"quickride/internal/handler"
	"quickride/internal/logging"
	internalRedis "quickride/internal/redis"
	"quickride/internal/repository"
	"quickride/internal/repository/memory"
	"quickride/internal/repository/postgres"
	"quickride/internal/service"
	"quickride/internal/ussd"
)

func main() {
	cfg := config.Load()

	logging.Init()
	logger := logging.L()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the stores can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Error("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	// Load the location catalog. A missing or unreadable file is not fatal:
	// the dialog degrades to empty menus until a reload succeeds.
	locations, err := catalog.LoadFile(cfg.USSD.CSVPath)
	if err != nil {
		logger.Error("location data load failed, starting with empty catalog",
			zap.String("path", cfg.USSD.CSVPath), zap.Error(err))
	} else {
		logger.Info("locations loaded",
			zap.String("path", cfg.USSD.CSVPath), zap.Int("count", len(locations)))
	}
	cat := catalog.New(locations)

	stores, err := wireStores(ctx, cfg, nrApp)
	if err != nil {
		logger.Fatal("store initialization failed", zap.Error(err))
	}
	defer stores.close()

	tripService := service.NewTripService(stores.trips)
	driverService := service.NewDriverService(stores.drivers)

	estimator := fare.NewEstimator(fare.NewTableDistance(fare.DefaultTownPairs()))
	engine := ussd.NewEngine(cat, estimator, tripService, cfg.USSD.PageSize, cfg.USSD.MaxDistanceKm)

	ussdHandler := handler.NewUSSDHandler(engine, stores.sessions, stores.locker, cfg.USSD.PathReplay)
	driverHandler := handler.NewDriverHandler(driverService, tripService)
	adminHandler := handler.NewAdminHandler(cat, cfg.USSD.CSVPath, tripService, driverService)

	router := app.NewRouter(app.RouterDeps{
		USSDHandler:   ussdHandler,
		DriverHandler: driverHandler,
		AdminHandler:  adminHandler,
		RedisClient:   stores.redisClient,
		NewRelicApp:   nrApp,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

// stores bundles the store implementations behind their contracts, plus the
// external clients that need closing on shutdown.
type stores struct {
	sessions repository.SessionStore
	locker   repository.SessionLocker
	trips    repository.TripRepository
	drivers  repository.DriverRepository

	redisClient *redis.Client
	db          *sql.DB
}

func (s *stores) close() {
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// wireStores builds the store set for the configured backend. Memory is the
// default; the external backend keeps sessions in Redis and trips/drivers in
// PostgreSQL.
func wireStores(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application) (*stores, error) {
	if cfg.Store.Backend == config.BackendExternal {
		redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			return nil, err
		}
		db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			_ = redisClient.Close()
			return nil, err
		}

		return &stores{
			sessions:    internalRedis.NewSessionStore(redisClient, cfg.USSD.SessionTTL),
			locker:      internalRedis.NewLockStore(redisClient),
			trips:       postgres.NewTripRepository(db),
			drivers:     postgres.NewDriverRepository(db),
			redisClient: redisClient,
			db:          db,
		}, nil
	}

	sessionStore := memory.NewSessionStore(cfg.USSD.SessionTTL)
	if cfg.USSD.SessionTTL > 0 {
		go sweepSessions(sessionStore, cfg.USSD.SessionTTL)
	}

	return &stores{
		sessions: sessionStore,
		locker:   sessionStore,
		trips:    memory.NewTripRepository(),
		drivers:  memory.NewDriverRepository(),
	}, nil
}

// sweepSessions drops idle sessions periodically so an enabled TTL also
// reclaims memory, not just resets state on next contact.
func sweepSessions(store *memory.SessionStore, ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for range ticker.C {
		if dropped := store.Sweep(); dropped > 0 {
			logging.L().Info("expired sessions swept", zap.Int("count", dropped))
		}
	}
}
