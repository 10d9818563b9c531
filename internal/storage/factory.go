package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type FactoryResult struct {
	Driver  string
	Storage Storage
}

// FromEnv picks the blob-store driver for transfer proofs and archive
// snapshots. Defaults to the local driver so a dev setup needs no storage
// config at all.
func FromEnv(ctx context.Context) (FactoryResult, error) {
	driver := strings.ToLower(envOr("STORAGE_DRIVER", "local"))

	switch driver {
	case "local":
		dir := envOr("UPLOAD_DIR", "./data/uploads")
		urlPrefix := envOr("UPLOAD_URL_PREFIX", "/uploads")
		return FactoryResult{Driver: driver, Storage: NewLocal(dir, urlPrefix)}, nil

	case "s3":
		cfg := S3Config{
			Region:        os.Getenv("S3_REGION"),
			Bucket:        os.Getenv("S3_BUCKET"),
			Prefix:        envOr("S3_PREFIX", "uploads"),
			PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		}
		if cfg.Region == "" || cfg.Bucket == "" || cfg.PublicBaseURL == "" {
			return FactoryResult{}, fmt.Errorf("s3 storage requires S3_REGION, S3_BUCKET and S3_PUBLIC_BASE_URL")
		}
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: driver, Storage: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
