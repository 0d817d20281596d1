// Package bootstrap provides dependency initialization for the stitch API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/rongsam/stitch-api/internal/config"
	"github.com/rongsam/stitch-api/internal/job"
	"github.com/rongsam/stitch-api/internal/media"
	"github.com/rongsam/stitch-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	JobService *job.Service
	Store      storage.Storage
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	// Initialize storage
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	// One ffmpeg wrapper serves stitching, burning, and probing
	ffmpeg := media.NewFFmpeg(cfg.FFmpegPath, media.WithFFprobePath(cfg.FFprobePath))

	// Initialize job repository
	repo := job.NewMemoryRepository()

	svc := job.NewService(
		repo,
		ffmpeg,
		ffmpeg,
		logger,
		job.WithProber(ffmpeg),
		job.WithStorage(store),
	)

	return &Dependencies{
		JobService: svc,
		Store:      store,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.TempDir, cfg.OutputDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.TempDir, cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
		slog.String("output_dir", cfg.OutputDir),
	)
	return localStore, nil
}
