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
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kilobco/sb-voice-agent/internal/agent"
	"github.com/kilobco/sb-voice-agent/internal/config"
	"github.com/kilobco/sb-voice-agent/internal/session"
	"github.com/kilobco/sb-voice-agent/internal/store"
	"github.com/kilobco/sb-voice-agent/internal/transfer"
	"github.com/kilobco/sb-voice-agent/pkg/logger"
)

const shutdownDeadline = 30 * time.Second

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Best-effort env file for local runs; real deployments use the env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.Open(rootCtx, "pgx", cfg.PostgresDSN())
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// Redis only backs the webhook dedup guard; the gateway runs without it.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(rootCtx, 2*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("redis ping failed, webhook dedup disabled", "err", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	deps := &appDeps{
		cfg:       cfg,
		rdb:       rdb,
		store:     store.NewPostgresGateway(db),
		registry:  session.NewRegistry(),
		transfer:  transfer.NewController(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, log),
		log:       log,
		startedAt: time.Now(),

		// Assembled once; the menu is static for the process lifetime.
		systemInstruction: agent.SystemInstruction(),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	registerRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("gateway listening", "addr", srv.Addr, "env", cfg.App.Env, "restaurant", cfg.Restaurant.ID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated", "sessions", deps.registry.Count())

	// Hard deadline: if the drain takes longer than 30 s, force-exit with 1.
	force := time.AfterFunc(shutdownDeadline, func() {
		slog.Error("shutdown deadline exceeded, forcing exit")
		os.Exit(1)
	})
	defer force.Stop()

	// Stop accepting new calls, then run every live session's close path.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	cancel()

	deps.registry.TerminateAll()
	drainDeadline := time.Now().Add(shutdownDeadline - 5*time.Second)
	for deps.registry.Count() > 0 && time.Now().Before(drainDeadline) {
		time.Sleep(100 * time.Millisecond)
	}

	log.Info("shutdown complete", "sessions", deps.registry.Count())
}
