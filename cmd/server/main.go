// @title        Gestion API
// @version      1.0
// @description  Inventory, sales, quotes and cash register backend for a small retail business.
// @BasePath     /
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/cache"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/config"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/infra"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/repository"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/router"
	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.TimeFieldFormat = time.RFC3339

	db, err := infra.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to open database")
	}

	// Redis is optional: without it the cache lives in process memory and
	// saga failures are logged synchronously.
	var (
		rdb     *redis.Client
		backend cache.Backend = cache.NewMemoryBackend()
	)
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		backend = cache.NewRedisBackend(rdb)
	}
	store := cache.New(backend, cfg.CacheTTL())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pool *worker.Pool
	if rdb != nil {
		reconcile := worker.NewReconcileWorker(repository.NewSagaLogRepository(db))
		pool = worker.NewPool(rdb, map[string]worker.Handler{
			worker.JobReconcile: reconcile.Process,
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
	}

	r := router.New(cfg, db, store, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().
			Str("env", cfg.Env).
			Str("db", cfg.DatabaseDriver).
			Str("cache", store.Backend()).
			Msgf("gestion backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
