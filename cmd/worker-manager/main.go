// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nba-qa-workers/internal/api"
	"nba-qa-workers/internal/archive"
	"nba-qa-workers/internal/catalog"
	"nba-qa-workers/internal/common/camunda"
	"nba-qa-workers/internal/common/config"
	"nba-qa-workers/internal/common/database"
	apperrors "nba-qa-workers/internal/common/errors"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/common/observability"
	"nba-qa-workers/internal/inference"
	"nba-qa-workers/internal/qa/analyzer"
	"nba-qa-workers/internal/qa/composer"
	"nba-qa-workers/internal/qa/retrieval"
	"nba-qa-workers/internal/qa/synthesis"
	"nba-qa-workers/internal/statsapi"

	aq "nba-qa-workers/internal/workers/qa/analyze-question"
	ans "nba-qa-workers/internal/workers/qa/answer-question"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", Version),
		zap.String("buildTime", BuildTime),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()
	readiness := map[string]api.ReadinessCheck{}

	// --- Statistics provider and reference catalog ---
	stats := statsapi.NewClient(cfg.APIs.Stats)

	cat, closeCatalog, err := loadCatalog(ctx, cfg, stats, zapLog)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(apperrors.NewCatalogLoadFailedError(cfg.Catalog.Source, err)))
	}
	defer closeCatalog()
	zapLog.Info("Catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("people", cat.PeopleCount()),
		zap.Int("teams", cat.TeamCount()),
	)

	// --- Pipeline ---
	var inferencer inference.Inferencer
	if cfg.APIs.Inference.BaseURL != "" {
		inferencer = inference.NewClient(cfg.APIs.Inference)
	} else {
		zapLog.Warn("apis.inference.base_url not set, answers fall back to narrative prefixes")
	}

	questionAnalyzer := analyzer.New(cat)
	pipeline := composer.New(
		questionAnalyzer,
		retrieval.NewDispatcher(stats, cat, cfg.APIs.Stats.DefaultSeason, log),
		synthesis.New(),
		inferencer,
		log,
	)

	// --- Answer archive (optional) ---
	var archiver ans.Archiver
	var answerStore api.AnswerStore
	if cfg.Archive.Enabled {
		rc := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rc.Close()

		answerArchive, err := archive.New(rc.GetClient(), time.Duration(cfg.Archive.TTLSeconds)*time.Second, log)
		if err != nil {
			zapLog.Fatal("archive init failed", zap.Error(err))
		}
		defer answerArchive.Close()

		archiver, answerStore = answerArchive, answerArchive
		readiness["redis"] = rc.Ping
		zapLog.Info("Redis connected successfully")
	}

	// --- Zeebe workers (when a broker is configured) ---
	var workers []*camunda.CamundaWorker
	var zeebe *camunda.Client
	if cfg.Camunda.BrokerAddress != "" {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		readiness["zeebe"] = zeebe.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

		if wcfg := config.GetWorkerConfig(cfg, ans.TaskType); wcfg.Enabled {
			handler := ans.NewHandler(ans.NewConfig(wcfg), pipeline, archiver, log)
			workers = append(workers, camunda.NewWorker(zeebe.GetClient(), ans.TaskType, wcfg, handler, obs, zapLog))
		}
		if wcfg := config.GetWorkerConfig(cfg, aq.TaskType); wcfg.Enabled {
			handler := aq.NewHandler(aq.NewConfig(wcfg), questionAnalyzer, log)
			workers = append(workers, camunda.NewWorker(zeebe.GetClient(), aq.TaskType, wcfg, handler, obs, zapLog))
		}
		for _, w := range workers {
			zapLog.Info("worker started", zap.String("taskType", w.TaskType()))
		}
	} else {
		zapLog.Warn("camunda.broker_address not set, running the HTTP API only")
	}

	// --- HTTP API ---
	gin.SetMode(cfg.Server.GinMode)
	router := api.NewRouter(api.Options{
		Pipeline:       pipeline,
		Analyzer:       questionAnalyzer,
		Archive:        answerStore,
		Observability:  obs,
		Readiness:      readiness,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Version:        Version,
		Logger:         log,
	})
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("HTTP API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP API failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP API", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// loadCatalog builds the reference catalog from the configured source. The
// returned func releases any connection the source opened.
func loadCatalog(ctx context.Context, cfg *config.Config, stats *statsapi.Client, log *zap.Logger) (*catalog.Catalog, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.ConnectPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			return nil, noop, err
		}
		cat, err := catalog.NewPostgresStore(pg.DB).Load(ctx)
		if err != nil {
			_ = pg.Close()
			return nil, noop, err
		}
		return cat, func() { _ = pg.Close() }, nil

	case config.CatalogSourceProvider:
		var cat *catalog.Catalog
		err := retryWithBackoff(func() error {
			var err error
			cat, err = catalog.NewProviderSource(stats).Load(ctx)
			return err
		}, 5, 2*time.Second, log, "Catalog download")
		return cat, noop, err

	default:
		cat, err := catalog.NewFileSource(cfg.Catalog.Path).Load(ctx)
		return cat, noop, err
	}
}
