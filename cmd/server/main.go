// Command server starts the interview simulation HTTP server.
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

	"github.com/joho/godotenv"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/ai/groq"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/ai/stub"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/aidetect/zerogpt"
	httpserver "github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/httpserver"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/observability"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/session/memory"
	redisstore "github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/session/redis"
	pdfext "github.com/CHRISDANIEL145/HR-Simulation-AI/internal/adapter/textextractor/pdf"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/app"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/config"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	// Session store: memory by default, Redis when configured.
	var (
		store      domain.SessionStore
		storeCheck func(context.Context) error
	)
	if cfg.RedisURL != "" {
		rs, err := redisstore.New(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = rs.Close() }()
		store = rs
		storeCheck = rs.Ping
		slog.Info("session store: redis", slog.Duration("ttl", cfg.SessionTTL))
	} else {
		store = memory.New()
		slog.Info("session store: memory")
	}

	// Completion client. The key is required outside dev; dev without a key
	// runs against the deterministic stub.
	var llm domain.CompletionClient
	if cfg.GroqAPIKey != "" {
		llm = groq.New(cfg)
		slog.Info("completion client: groq", slog.String("model", cfg.GroqModel))
	} else if cfg.IsDev() {
		llm = stub.New()
		slog.Warn("GROQ_API_KEY not set; using stub completion client")
	} else {
		slog.Error("GROQ_API_KEY is required outside dev")
		os.Exit(1)
	}

	// AI-content detection is optional.
	var detector domain.ContentDetector
	if cfg.DetectionEnabled() {
		detector = zerogpt.New(cfg.ZeroGPTURL, cfg.ZeroGPTAPIKey, cfg.ZeroGPTTimeout)
		slog.Info("content detection enabled")
	}

	mix := usecase.DefaultQuestionMix()
	if cfg.QuestionMixFile != "" {
		m, err := usecase.LoadQuestionMix(cfg.QuestionMixFile)
		if err != nil {
			slog.Error("question mix load failed", slog.Any("error", err))
			os.Exit(1)
		}
		mix = m
		slog.Info("question mix loaded", slog.String("file", cfg.QuestionMixFile))
	}

	interviews := usecase.NewService(store, llm, usecase.Options{
		Detector:          detector,
		Mix:               mix,
		ResumeTokenBudget: cfg.ResumeTokenBudget,
		Logger:            logger,
	})

	srv := httpserver.NewServer(cfg, interviews, pdfext.New(), storeCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
