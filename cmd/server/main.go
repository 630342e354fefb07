package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinescope/internal/adapters/primary/http/handlers"
	"cinescope/internal/adapters/primary/http/middleware"
	"cinescope/internal/adapters/secondary/gdrive"
	"cinescope/internal/adapters/secondary/postgres"
	"cinescope/internal/adapters/secondary/prometheus"
	"cinescope/internal/config"
	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
	"cinescope/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics registry (Optional - based on config)
	var registry *prom.Registry
	var registerer prom.Registerer
	if cfg.Metrics.Enabled {
		registry = prom.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		registerer = registry
	} else {
		log.Info("metrics disabled")
	}
	recorder := prometheus.NewRecorder(registerer)

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters
	source, err := gdrive.NewDriveClient(&cfg.Dataset)
	if err != nil {
		log.Fatalf("create drive client: %v", err)
	}

	// Snapshot export (Optional - based on config)
	var snapshots ports.SnapshotRepository
	if cfg.Database.Enabled() {
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			log.Warnf("database init failed (continuing without snapshot export): %v", err)
		} else {
			defer pool.Close()
			snapshots = postgres.NewSnapshotRepository(pool)
			log.Info("database connection established")
		}
	} else {
		log.Info("snapshot export disabled")
	}

	// Startup pipeline: provision, load, export
	provisioner := services.NewProvisionerService(source, recorder, cfg.Dataset.RetryMax, cfg.Dataset.RetryWait)
	loader := services.NewLoaderService(recorder)

	datasetSvc, err := services.Bootstrap(ctx, provisioner, loader, snapshots, domain.DatasetSpec{
		Path:         cfg.Dataset.Path,
		RemoteID:     cfg.Dataset.FileID,
		ExpectedSize: cfg.Dataset.ExpectedSize,
		Refresh:      cfg.Dataset.Refresh,
	})
	if err != nil {
		log.Fatalf("bootstrap dataset: %v", err)
	}

	// Core Services
	overviewSvc := services.NewOverviewService(datasetSvc)
	genreSvc := services.NewGenreService(datasetSvc)
	countrySvc := services.NewCountryService(datasetSvc)
	companySvc := services.NewCompanyService(datasetSvc)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(datasetSvc, overviewSvc, genreSvc, countrySvc, companySvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())
	if registry != nil {
		router.Use(middleware.Metrics(registry))
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1/cinescope")
	h.RegisterRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		if _, err := datasetSvc.Dataset(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func openPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(db.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(db.MaxOpenConns)
	poolCfg.MinConns = int32(db.MaxIdleConns)
	poolCfg.MaxConnLifetime = db.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
