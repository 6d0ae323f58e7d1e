package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recycling-admin-backend/internal/api"
	"recycling-admin-backend/internal/db"
	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/mw"
	"recycling-admin-backend/internal/notification"
	"recycling-admin-backend/internal/simulator"
	"recycling-admin-backend/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Log.Development && !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	appStore := store.New(buildSeed(cfg.Simulator, time.Now()))
	logger.Info("data store initialized", zap.Any("counts", appStore.Counts()))

	responseCache := mw.NewResponseCache(time.Duration(cfg.Server.CacheTTLSeconds) * time.Second)
	appStore.OnMutation(func(store.Mutation) { responseCache.Flush() })

	subscriptions := store.NewGormSubscriptions(gormDB)
	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	if cfg.Push.Enabled() {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore.Alerts, subscriptions, webpushOptions, logger)
		pool.Start(ctx)
		appStore.OnMutation(func(m store.Mutation) {
			if m.Kind == model.KindAlerts && m.Op == store.OpCreate {
				pool.Dispatch(m.ID)
			}
		})
		logger.Info("alert notifications enabled", zap.Int("workers", cfg.WorkerPool.Size))
	} else {
		logger.Warn("VAPID keys not configured, alert push notifications disabled")
	}

	// Initialize and run the simulator in the background with the store
	sim := simulator.NewService(&cfg.Simulator, appStore, logger)
	defer sim.Close()
	go sim.Run(ctx)

	handler := api.NewHandler(api.Deps{
		Store:         appStore,
		OpLog:         store.NewGormOpLog(gormDB),
		Subscriptions: subscriptions,
		Simulator:     sim,
		Sessions:      mw.NewSessions(cfg.Auth.SessionTTL),
		Auth:          cfg.Auth,
		WebPush:       webpushOptions,
		Log:           logger,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(handler, responseCache, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server ListenAndServe: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping services")
	}

	// Create a deadline to wait for.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}

	logger.Info("server gracefully stopped")
	return nil
}
