package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camden-git/yearbookbackend/auth"
	"github.com/camden-git/yearbookbackend/database"
	"github.com/camden-git/yearbookbackend/handlers"
	"github.com/camden-git/yearbookbackend/realtime"
	"github.com/camden-git/yearbookbackend/repository"
	"github.com/camden-git/yearbookbackend/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := database.Open(cfg.DatabasePath, log.Named("database"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db) //nolint:errcheck

	if !cfg.AdminConfigured() {
		log.Warn("ADMIN_PASSWORD is not set; admin routes will answer with a configuration error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	people := repository.NewPersonRepository(db)
	router := handlers.NewRouter(handlers.RouterDeps{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Guard:    auth.NewAdminGuard(cfg.AdminPassword),
		Comments: services.NewCommentService(repository.NewCommentRepository(db), people, hub, log, cfg.EditTokenBytes),
		Gallery:  services.NewGalleryService(repository.NewGalleryStateRepository(db), people, hub, log),
		People:   services.NewPersonService(people, hub, log),
		Hub:      hub,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("api_prefix", cfg.APIPrefix),
			zap.String("database", cfg.DatabasePath),
			zap.Strings("cors_origins", cfg.CORSOrigins),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stopHub()
		<-hub.Done()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down gracefully", zap.Duration("timeout", cfg.ShutdownTimeout))
	stopHub()
	<-hub.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
		_ = server.Close()
		return fmt.Errorf("graceful shutdown timed out: %w", err)
	}

	log.Info("server stopped")
	return nil
}
