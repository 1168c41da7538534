package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string // LOOM_DATABASE_URL (required)
	HTTPAddr    string // LOOM_HTTP_ADDR (default ":8080")
	NATSURL     string // LOOM_NATS_URL (optional, empty = no events)
	AuthToken   string // LOOM_AUTH_TOKEN (optional, empty = auth disabled)

	// Sync settings
	SyncInterval   time.Duration // LOOM_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // LOOM_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // LOOM_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // LOOM_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // LOOM_SYNC_S3_KEY (default "loom/backup.jsonl")
	SyncGitRepo    string        // LOOM_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // LOOM_SYNC_GIT_FILE (default "loom.jsonl")
	SyncGitBranch  string        // LOOM_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("LOOM_DATABASE_URL"),
		HTTPAddr:       envOrDefault("LOOM_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("LOOM_NATS_URL"),
		AuthToken:      os.Getenv("LOOM_AUTH_TOKEN"),
		SyncS3Bucket:   os.Getenv("LOOM_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("LOOM_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("LOOM_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("LOOM_SYNC_S3_KEY", "loom/backup.jsonl"),
		SyncGitRepo:    os.Getenv("LOOM_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("LOOM_SYNC_GIT_FILE", "loom.jsonl"),
		SyncGitBranch:  envOrDefault("LOOM_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("LOOM_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("LOOM_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("LOOM_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
