// Command server starts the interview agent HTTP server.
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

	"github.com/redis/go-redis/v9"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/ai/gemini"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/ai/openrouter"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/httpserver"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/report"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/sessionstore"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/adapter/textextractor/tika"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/app"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/config"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/observability"
	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	ctx := context.Background()

	// Session storage
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()
	store := sessionstore.New(rdb, cfg.SessionTTL)
	if err := store.Ping(ctx); err != nil {
		slog.Error("redis connect failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Model clients. A provider without a key is simply not wired; sessions
	// selecting it fail at call time with a clear error.
	var models usecase.ModelRouter
	if cfg.GeminiAPIKey != "" {
		gcl, err := gemini.New(ctx, cfg.GeminiAPIKey)
		if err != nil {
			slog.Error("gemini client init failed", slog.Any("error", err))
			os.Exit(1)
		}
		models.Gemini = gcl
	}
	if cfg.OpenRouterAPIKey != "" {
		models.OpenRouter = openrouter.New(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.ModelCallTimeout,
			openrouter.WithAttribution(cfg.OpenRouterReferer, cfg.OpenRouterTitle))
	}
	if models.Gemini == nil && models.OpenRouter == nil {
		slog.Error("no model provider configured, set GEMINI_API_KEY or OPENROUTER_API_KEY")
		os.Exit(1)
	}

	// The summary model must belong to a configured provider.
	summaryClient, err := models.ClientFor(domain.ResolveProviderFamily(cfg.DefaultSummaryModel))
	if err != nil {
		slog.Error("default summary model has no configured provider",
			slog.String("model", cfg.DefaultSummaryModel), slog.Any("error", err))
		os.Exit(1)
	}

	extractor := tika.New(cfg.TikaURL)
	renderer := report.NewRenderer()

	retry := usecase.SummaryBackoff{
		InitialInterval: cfg.SummaryBackoffInitialInterval,
		MaxInterval:     cfg.SummaryBackoffMaxInterval,
		MaxElapsedTime:  cfg.SummaryBackoffMaxElapsedTime,
		Multiplier:      cfg.SummaryBackoffMultiplier,
	}
	resumeSvc := usecase.NewResumeService(extractor, summaryClient, store, cfg.DefaultSummaryModel, cfg.ModelCallTimeout, retry)
	interviewSvc := usecase.NewInterviewService(store, models, cfg.ModelCallTimeout)
	reportSvc := usecase.NewReportService(store, models, renderer, cfg.ModelCallTimeout)

	srv := httpserver.NewServer(cfg, resumeSvc, interviewSvc, reportSvc, store.Ping, extractor.Ping)
	handler := app.BuildRouter(cfg, srv)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		slog.Info("server listening", slog.Int("port", cfg.Port), slog.String("env", cfg.AppEnv))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
	}
	slog.Info("server stopped")
}
