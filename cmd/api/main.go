package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-reels/internal/app"
	"pet-reels/internal/config"
	"pet-reels/internal/platform/logger"
	"pet-reels/internal/router"
)

// @title Pet Reels API
// @version 1.0
// @description Feed de videos de animales en adopción, ordenado por cercanía.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	cfg, err := config.Load("")
	if err != nil {
		log.Error("config error", logger.Err(err))
		os.Exit(1)
	}
	log = logger.New(cfg.LoggerOptions())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, app.Options{Config: cfg, Logger: log})
	if err != nil {
		log.Error("startup failed", logger.Err(err))
		os.Exit(1)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(router.Options{App: a}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", logger.Err(err))
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", logger.Err(err))
	}
	log.Info("server stopped", nil)
}
