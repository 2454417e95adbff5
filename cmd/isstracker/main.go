package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/kailas-cloud/isstracker/internal/config"
	"github.com/kailas-cloud/isstracker/internal/db"
	dbMemory "github.com/kailas-cloud/isstracker/internal/db/memory"
	dbRedis "github.com/kailas-cloud/isstracker/internal/db/redis"
	"github.com/kailas-cloud/isstracker/internal/domain"
	logpkg "github.com/kailas-cloud/isstracker/internal/logger"
	"github.com/kailas-cloud/isstracker/internal/metrics"
	"github.com/kailas-cloud/isstracker/internal/repository/geocache"
	svrepo "github.com/kailas-cloud/isstracker/internal/repository/statevector"
	chiTransport "github.com/kailas-cloud/isstracker/internal/transport/chi"
	"github.com/kailas-cloud/isstracker/internal/transport/nominatim"
	"github.com/kailas-cloud/isstracker/internal/transport/oem"
	healthuc "github.com/kailas-cloud/isstracker/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/isstracker/internal/usecase/ingest"
	trackeruc "github.com/kailas-cloud/isstracker/internal/usecase/tracker"
	"github.com/kailas-cloud/isstracker/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting "+version.String(),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
	case config.DriverMemory:
		store = dbMemory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register tracker metrics explicitly (no init())
	metrics.RegisterTrackerMetrics()

	svRepo := svrepo.New(store, cfg.Storage.KeyPrefix)

	// Populate the store once per process; failures leave it empty and are not fatal.
	if cfg.Feed.IsEnabled() {
		gate := ingestuc.New(
			svRepo,
			oem.NewFetcher(cfg.Feed.URL, time.Duration(cfg.Feed.TimeoutSec)*time.Second),
			oem.NewParser(),
			logger.Named("ingest"),
		)
		rep, err := gate.EnsureLoaded(ctx)
		if err != nil {
			logger.Error("Ingestion failed", zap.Error(err))
		} else {
			logger.Info("Ingestion finished",
				zap.String("outcome", string(rep.Outcome)),
				zap.Int("stored", rep.Stored),
				zap.Int("rejected", rep.Rejected),
			)
		}
	} else {
		logger.Warn("Feed ingestion disabled")
	}

	trackerSvc := trackeruc.New(svRepo, clockwork.NewRealClock())
	healthSvc := healthuc.New(store, svRepo)

	// Create chi server
	server := chiTransport.NewServer(trackerSvc, healthSvc, buildGeocoder(cfg, store, logger), logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys, cfg.Auth.PublicPaths...))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildGeocoder assembles the decorator chain: Nominatim -> Cached.
// Returns nil when geocoding is disabled.
func buildGeocoder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Geocoder {
	gc := cfg.Geocoder
	if !gc.Enabled {
		logger.Info("Reverse geocoding disabled")
		return nil
	}

	var geocoder domain.Geocoder = nominatim.NewClient(nominatim.Config{
		BaseURL:   gc.BaseURL,
		UserAgent: gc.UserAgent,
		Zoom:      gc.Zoom,
		Language:  gc.Language,
		Timeout:   time.Duration(gc.TimeoutSec) * time.Second,
	})

	if gc.CacheTTLSec > 0 {
		geocoder = geocache.New(
			geocoder, store, cfg.Storage.KeyPrefix,
			time.Duration(gc.CacheTTLSec)*time.Second,
			metrics.GeocodeCacheTotal, logger,
		)
	}

	logger.Info("Reverse geocoder created",
		zap.String("base_url", gc.BaseURL),
		zap.Int("zoom", gc.Zoom),
		zap.Bool("cached", gc.CacheTTLSec > 0),
	)
	return geocoder
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					writeJSONError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
