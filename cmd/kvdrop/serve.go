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

	"github.com/spf13/cobra"

	"github.com/sagarc03/kvdrop"
	kvdrophttp "github.com/sagarc03/kvdrop/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the kvdrop HTTP server.

The backend is connected, migrated when backend.auto_migrate is set and
validated before the listener opens. SIGINT and SIGTERM trigger a
graceful shutdown.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8787, "HTTP server port (env: KVDROP_SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := configFromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	db, err := openBackend(ctx, cfg.Backend, cfg.Backend.AutoMigrate)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to backend", "type", cfg.Backend.Type)

	service := kvdrop.NewService(db.GetStore())

	handlerConfig := kvdrophttp.HandlerConfig{
		Token:         cfg.Auth.Token,
		CORS:          cfg.CORS,
		MaxUploadSize: cfg.Server.MaxUploadSize,
	}
	handler := kvdrophttp.NewHandler(&handlerConfig, service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "max_upload_size", cfg.Server.MaxUploadSize)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
