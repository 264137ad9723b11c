package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"issue-tracker/internal/attachments"
	"issue-tracker/internal/config"
	"issue-tracker/internal/database"
	"issue-tracker/internal/handlers"
	"issue-tracker/internal/logger"
	"issue-tracker/internal/server"
	"issue-tracker/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	log := logger.Get()

	gin.SetMode(cfg.GinMode)

	db, err := database.Init(cfg.DBDSN)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.SeedAdmin(cmd.Context(), db, database.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Cost:     cfg.SaltRounds,
	}); err != nil {
		return err
	}

	files, err := attachments.New(cfg.UploadDir, cfg.MaxUploadBytes, cfg.AllowedUploadTypes)
	if err != nil {
		return err
	}

	hasher := services.NewPasswordHasher(cfg.SaltRounds)
	h := handlers.New(
		services.NewAuthService(db, hasher),
		services.NewUserService(db, hasher),
		services.NewIssueService(db, files),
		services.NewConversationService(db, files),
		files,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           server.NewRouter(cfg, h),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", srv.Addr, "upload_dir", files.Dir(), "mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
	return nil
}
