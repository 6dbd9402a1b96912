package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"

	"github.com/handsomefox/flixora/internal/env"
	"github.com/handsomefox/flixora/internal/handlers"
	"github.com/handsomefox/flixora/internal/logger"
	"github.com/handsomefox/flixora/internal/store"
	"github.com/handsomefox/flixora/internal/tmdb"
	"github.com/handsomefox/flixora/internal/web"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultPort     = "8080"
	cacheSize       = 512
	cacheTTL        = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	log := logger.New(logger.ParseLevel(envOr("LOG_LEVEL", "debug")))
	slog.SetDefault(log)
	if err := run(log); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	dbPath := envOr("DB_PATH", "/app/data/flixora.db")
	apiKey := os.Getenv("TMDB_API_KEY")
	readToken := os.Getenv("TMDB_API_READ_TOKEN")
	if apiKey == "" && readToken == "" {
		return errors.New("TMDB_API_KEY or TMDB_API_READ_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Failed to close DB", logger.Error(err))
		}
	}()

	assets, err := web.Dist()
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}

	app, err := handlers.New(ctx, &handlers.Config{
		Catalog:        tmdb.NewCached(tmdb.New(apiKey, readToken), cacheSize, cacheTTL),
		Progress:       st,
		ImageBase:      envOr("TMDB_IMAGE_BASE", tmdb.DefaultImageBase),
		PlayerColor:    os.Getenv("PLAYER_COLOR"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
	})
	if err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(log, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaECS.Concise(env.Current == env.Local),
		RecoverPanics: true,
	}))
	r.Handle(web.Prefix+"*", handlers.Static(web.Prefix, assets))
	app.RegisterRoutes(r)

	addr := ":" + envOr("PORT", defaultPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
