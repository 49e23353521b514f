//	@title			Photos App API
//	@version		1.0
//	@description	Relays uploaded photos to cloud storage and returns their public URL.
//
//	@host		localhost:5000
//	@BasePath	/

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

	"github.com/levig/photos-app/internal/config"
	"github.com/levig/photos-app/internal/logger"
	"github.com/levig/photos-app/internal/photo"
	"github.com/levig/photos-app/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.IsProduction(), cfg.LogLevel)

	store, err := newUploader(context.Background(), log, cfg)
	if err != nil {
		log.Error("object storage init failed", logger.Err(err))
		os.Exit(1)
	}

	photoHandler := photo.NewHandler(log, store, cfg.StorageFolder, cfg.UploadTimeout)

	srv := newServer(cfg, newRouter(log, cfg, photoHandler))

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening",
			slog.String("address", srv.Addr),
			slog.String("env", cfg.AppEnv),
			slog.String("storage", cfg.StorageDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Err(err))
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", logger.Err(err))
		return
	}

	log.Info("server stopped")
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     h,
		ReadTimeout: cfg.ReadTimeout,
		// Staging and the provider call both run after the body is read.
		WriteTimeout: cfg.ReadTimeout + cfg.UploadTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// newUploader builds the remote store selected by STORAGE_DRIVER.
func newUploader(ctx context.Context, log *slog.Logger, cfg *config.Config) (storage.Uploader, error) {
	switch cfg.StorageDriver {
	case config.DriverCloudinary:
		return storage.NewCloudinaryStorage(
			cfg.CloudinaryCloudName,
			cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret,
		)
	case config.DriverS3:
		return storage.NewMinioStorage(ctx, log,
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
		)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
