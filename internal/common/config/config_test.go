package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.SignInURL != "/auth/signin" {
		t.Errorf("expected default sign-in url, got %s", cfg.SignInURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s request timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.MigrateOnStart {
		t.Error("expected migrations disabled by default")
	}
	if cfg.RedisURL != "" {
		t.Errorf("expected empty redis url, got %s", cfg.RedisURL)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("DB_MIGRATE_ON_START", "true")
	t.Setenv("RATE_LIMIT_WRITE_BURST", "not-a-number")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.HTTPPort)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Errorf("expected 2s, got %v", cfg.RequestTimeout)
	}
	if !cfg.MigrateOnStart {
		t.Error("expected migrations enabled")
	}
	if cfg.RateLimitWriteBurst != 5 {
		t.Errorf("expected fallback burst 5, got %d", cfg.RateLimitWriteBurst)
	}
}

func TestFromEnv_MissingDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "")

	_, err := FromEnv()
	if !errors.Is(err, commonerrors.ErrMissingRequiredEnv) {
		t.Fatalf("expected ErrMissingRequiredEnv, got %v", err)
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("expected error to name DATABASE_URL, got %v", err)
	}
}

func TestFromEnv_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobboard")

	_, err := FromEnv()
	if !errors.Is(err, commonerrors.ErrInvalidJWTSecret) {
		t.Fatalf("expected ErrInvalidJWTSecret, got %v", err)
	}
}
