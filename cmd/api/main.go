package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"coursereviews/internal/cache"
	"coursereviews/internal/config"
	"coursereviews/internal/database"
	"coursereviews/internal/modules/moderation"
	"coursereviews/internal/pkg/jwt"
	"coursereviews/internal/pkg/logger"
	"coursereviews/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err.Error())
		os.Exit(1)
	}

	log := logger.New("coursereviews-api", cfg.LogLevel)
	slog.SetDefault(log)
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	deps := server.Deps{
		DB: db,
		Verifier: jwt.New(jwt.Options{
			Secret:        cfg.AuthSecret,
			Issuer:        cfg.AuthIssuer,
			Audience:      cfg.AuthAudience,
			AllowedDomain: cfg.AuthAllowedDomain,
			TTL:           cfg.AuthTokenTTL,
		}),
		Logger:         log,
		Hub:            moderation.NewHub(log),
		RequestTimeout: cfg.RequestTimeout,
		CORSOrigins:    cfg.CORSAllowedOrigins,
	}
	defer deps.Hub.Close()

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.Cache = cache.New(client, cfg.StatsCacheTTL)
		log.Info("stats cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.StatsCacheTTL.String())
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
