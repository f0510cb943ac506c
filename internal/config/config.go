package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Postgres connection string.
	DatabaseURL string

	// PDF blob storage root directory.
	StorageRoot string

	// Static UI assets.
	WebRoot string

	// Upload limits
	MaxUploadBytes int64

	// PDF extraction
	PDFFallbackPdftotext bool

	// External search helper
	SearchSources []string
	SearchTimeout time.Duration

	// Audit trail
	AuditLogLimit int
}

// Default vendor sites the aggregating search helper scrapes.
var defaultSearchSources = []string{
	"https://aerofabndt.com",
	"https://technandt.com",
}

func Load() Config {
	// Optional .env for local development; deployments set env directly.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		StorageRoot: envOr("STORAGE_ROOT", "storage"),
		WebRoot:     envOr("WEB_ROOT", "web"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		SearchSources: envList("SEARCH_SOURCES", defaultSearchSources),
		SearchTimeout: envDuration("SEARCH_TIMEOUT", 10*time.Second),

		AuditLogLimit: envInt("AUDIT_LOG_LIMIT", 200),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 10 * time.Second
	}
	if cfg.AuditLogLimit <= 0 {
		cfg.AuditLogLimit = 200
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.StorageRoot == "" {
		return fmt.Errorf("STORAGE_ROOT is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
