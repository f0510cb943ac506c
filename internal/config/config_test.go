package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ndthub")

	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.MaxUploadBytes != 52428800 {
		t.Errorf("expected default upload limit, got %d", cfg.MaxUploadBytes)
	}
	if len(cfg.SearchSources) != 2 {
		t.Errorf("expected 2 default search sources, got %v", cfg.SearchSources)
	}
	if cfg.SearchTimeout != 10*time.Second {
		t.Errorf("expected default search timeout, got %v", cfg.SearchTimeout)
	}
	if cfg.AuditLogLimit != 200 {
		t.Errorf("expected default audit limit 200, got %d", cfg.AuditLogLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ndthub")
	t.Setenv("PORT", "9000")
	t.Setenv("SEARCH_SOURCES", "http://a.example, http://b.example ,")
	t.Setenv("SEARCH_TIMEOUT", "3s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if len(cfg.SearchSources) != 2 || cfg.SearchSources[0] != "http://a.example" || cfg.SearchSources[1] != "http://b.example" {
		t.Errorf("unexpected search sources %v", cfg.SearchSources)
	}
	if cfg.SearchTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.SearchTimeout)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024 byte limit, got %d", cfg.MaxUploadBytes)
	}
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without DATABASE_URL")
	}
}
