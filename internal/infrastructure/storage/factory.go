package storage

import (
	"context"
	"fmt"

	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/shared/config"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// New builds the media store selected by cfg.Driver.
func New(ctx context.Context, cfg config.MediaConfig, log logger.Interface) (usecases.MediaStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.BaseURL, log)
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:   cfg.S3.Bucket,
			Region:   cfg.S3.Region,
			Endpoint: cfg.S3.Endpoint,
			Prefix:   cfg.S3.Prefix,
		}, log)
	default:
		return nil, fmt.Errorf("unsupported media driver: %q", cfg.Driver)
	}
}
