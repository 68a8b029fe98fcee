package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"
	"golang.org/x/time/rate"

	"github.com/vbonduro/foodiq/internal/catalog"
	"github.com/vbonduro/foodiq/internal/config"
	"github.com/vbonduro/foodiq/internal/db"
	"github.com/vbonduro/foodiq/internal/gateway"
	"github.com/vbonduro/foodiq/internal/labelstore"
	"github.com/vbonduro/foodiq/internal/labelstore/local"
	miniostore "github.com/vbonduro/foodiq/internal/labelstore/minio"
	"github.com/vbonduro/foodiq/internal/llm"
	"github.com/vbonduro/foodiq/internal/llm/claude"
	"github.com/vbonduro/foodiq/internal/llm/ollama"
	"github.com/vbonduro/foodiq/internal/llm/openrouter"
	"github.com/vbonduro/foodiq/internal/logging"
	"github.com/vbonduro/foodiq/internal/service"
	"github.com/vbonduro/foodiq/internal/store"
	"github.com/vbonduro/foodiq/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	webOpts := web.Options{
		Backend:     "none",
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   rate.Limit(cfg.RateLimitRPS),
		RateBurst:   cfg.RateLimitBurst,
		Checks:      map[string]web.HealthChecker{},
	}

	var (
		model    service.ModelGateway
		extract  service.Extractor
		outcomes service.OutcomeRecorder
	)

	if completer := newCompleter(cfg, logger); completer != nil {
		webOpts.Backend = cfg.ModelBackend
		model = gateway.NewModelGateway(completer)
		extract = gateway.NewExtractionGateway(completer, logger)
	}

	if cfg.DBPath != "" {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()
		outcomeStore := store.NewOutcomeStore(database)
		outcomes = outcomeStore
		webOpts.Stats = outcomeStore
		webOpts.Checks["database"] = &web.DatabaseChecker{DB: database}
	}

	labels, err := newLabelStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	webOpts.Labels = labels

	svc := service.NewAnalysisService(
		cat,
		model,
		extract,
		outcomes,
		labels,
		service.Options{
			ForceDemo:  cfg.UseDemo,
			DemoDelay:  cfg.DemoDelay,
			DemoJitter: cfg.DemoJitter,
			Timeout:    cfg.UpstreamTimeout,
		},
		logger,
	)
	logger.Info("analysis mode", "mode", svc.Mode(), "backend", webOpts.Backend)

	server := web.NewServer(svc, webOpts, logger)
	return server.ListenAndServe(ctx, cfg.ListenAddr)
}

// newCompleter returns the configured model backend, or nil when it lacks
// credentials and every request is answered from the catalog.
func newCompleter(cfg *config.Config, logger *slog.Logger) llm.Completer {
	if !cfg.ModelConfigured() {
		logger.Warn("model backend not configured, running in demo mode", "backend", cfg.ModelBackend)
		return nil
	}
	switch cfg.ModelBackend {
	case "claude":
		logger.Info("using Claude model backend", "model", cfg.ClaudeModel)
		return claude.New(claude.Options{
			APIKey:  cfg.ClaudeAPIKey,
			Model:   cfg.ClaudeModel,
			Timeout: cfg.UpstreamTimeout,
		})
	case "ollama":
		logger.Info("using Ollama model backend", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollama.New(ollama.Options{
			Host:    cfg.OllamaHost,
			Model:   cfg.OllamaModel,
			Timeout: cfg.UpstreamTimeout,
		})
	default:
		logger.Info("using OpenRouter model backend", "model", cfg.OpenRouterModel)
		return openrouter.New(openrouter.Options{
			APIKey:  cfg.OpenRouterAPIKey,
			BaseURL: cfg.OpenRouterBaseURL,
			Model:   cfg.OpenRouterModel,
			Referer: cfg.AppReferer,
			Title:   cfg.AppTitle,
			Timeout: cfg.UpstreamTimeout,
		})
	}
}

func newLabelStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (labelstore.Store, error) {
	switch cfg.LabelBackend {
	case "local":
		logger.Info("archiving labels on disk", "path", cfg.LabelLocalPath)
		return local.New(cfg.LabelLocalPath)
	case "minio":
		logger.Info("archiving labels in object storage", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		return miniostore.New(ctx, miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			Region:    cfg.MinioRegion,
			Bucket:    cfg.MinioBucket,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return nil, nil
	}
}
