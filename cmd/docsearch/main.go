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
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/config"
	dbRedis "github.com/kailas-cloud/docsearch/internal/db/redis"
	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/index"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	"github.com/kailas-cloud/docsearch/internal/repository/embcache"
	"github.com/kailas-cloud/docsearch/internal/repository/history"
	"github.com/kailas-cloud/docsearch/internal/repository/snapshot"
	chiTransport "github.com/kailas-cloud/docsearch/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/docsearch/internal/transport/openai"
	pdfTransport "github.com/kailas-cloud/docsearch/internal/transport/pdf"
	chatuc "github.com/kailas-cloud/docsearch/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docsearch/internal/usecase/ingest"
	libraryuc "github.com/kailas-cloud/docsearch/internal/usecase/library"
	queryuc "github.com/kailas-cloud/docsearch/internal/usecase/query"
	"github.com/kailas-cloud/docsearch/internal/version"
)

const (
	documentsCollection   = "documents"
	chatHistoryCollection = "chat_history"
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

	logger.Info("Starting docsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_model", cfg.LLM.EmbeddingModel),
		zap.String("chat_model", cfg.LLM.ChatModel),
	)

	metrics.RegisterProviderMetrics()

	ctx := context.Background()

	// Optional Redis embedding cache. Disabled when no addrs configured.
	var cacheStore *dbRedis.Store
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		if err := cacheStore.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	embedder := buildEmbedder(cfg, cacheStore, logger)
	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.ChatModel,
		Provider: cfg.LLM.Provider,
		Logger:   logger,
	})

	snapStore, err := snapshot.NewStore(cfg.Storage.IndexDir)
	if err != nil {
		logger.Fatal("Failed to create snapshot store", zap.Error(err))
	}
	turnLog, err := history.NewStore(cfg.Storage.HistoryDir)
	if err != nil {
		logger.Fatal("Failed to create history store", zap.Error(err))
	}

	docs, err := index.Open(documentsCollection, snapStore)
	if err != nil {
		logger.Fatal("Failed to open documents collection", zap.Error(err))
	}
	chats, err := index.Open(chatHistoryCollection, snapStore)
	if err != nil {
		logger.Fatal("Failed to open chat history collection", zap.Error(err))
	}
	logger.Info("Collections loaded",
		zap.Int("documents", docs.Len()),
		zap.Int("chat_history", chats.Len()),
	)

	providerTimeout := time.Duration(cfg.LLM.TimeoutSec) * time.Second

	ingestSvc := ingestuc.New(docs, pdfTransport.NewExtractor(), embedder).
		WithTimeout(providerTimeout)
	querySvc := queryuc.New(docs, chats, turnLog, embedder, generator).
		WithSearchK(cfg.Search.DocumentK, cfg.Search.HistoryK).
		WithTimeout(providerTimeout)
	librarySvc := libraryuc.New(docs)
	chatSvc := chatuc.New(turnLog, chats)

	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(newEmbeddingHealthChecker(embedder), cachePinger)

	server := chiTransport.NewServer(ingestSvc, querySvc, librarySvc, chatSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
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

// buildEmbedder assembles the embedder chain: OpenAI -> Cached (optional).
func buildEmbedder(cfg config.Config, cacheStore *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		Model:      cfg.LLM.EmbeddingModel,
		Dimensions: cfg.LLM.Dimensions,
		Provider:   cfg.LLM.Provider,
		Logger:     logger,
	})

	if cacheStore == nil {
		return base
	}
	return embcache.New(base, cacheStore, metrics.EmbeddingCacheTotal, logger)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
