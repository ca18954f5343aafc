package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "API_PORT", "LOAD_TIMEOUT", "SESSION_TIMEOUT", "AUDIT_LIMIT", "FEED_PREFETCH", "LOG_LEVEL", "RABBIT_EXCHANGE", "RABBITMQ_EXCHANGE"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("port=%q", cfg.Port)
	}
	if cfg.LoadTimeout != 15*time.Second {
		t.Fatalf("load timeout=%v", cfg.LoadTimeout)
	}
	if cfg.SessionTimeout != 10*time.Second {
		t.Fatalf("session timeout=%v", cfg.SessionTimeout)
	}
	if cfg.AuditLimit != 100 {
		t.Fatalf("audit limit=%d", cfg.AuditLimit)
	}
	if cfg.FeedPrefetch != 50 {
		t.Fatalf("feed prefetch=%d", cfg.FeedPrefetch)
	}
	if cfg.RabbitExchange != "crm_changes" {
		t.Fatalf("exchange=%q", cfg.RabbitExchange)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("level=%v", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("PORT", "")
	t.Setenv("LOAD_TIMEOUT", "2s")
	t.Setenv("AUDIT_LIMIT", "abc") // inválido -> default
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FEED_PREFETCH", "10")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("port=%q", cfg.Port)
	}
	if cfg.LoadTimeout != 2*time.Second {
		t.Fatalf("load timeout=%v", cfg.LoadTimeout)
	}
	if cfg.AuditLimit != 100 {
		t.Fatalf("audit limit=%d", cfg.AuditLimit)
	}
	if cfg.FeedPrefetch != 10 {
		t.Fatalf("feed prefetch=%d", cfg.FeedPrefetch)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("level=%v", cfg.LogLevel)
	}
}

func TestLoadWSConfig_SharesSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("WS_PREFETCH", "")

	cfg := LoadWSConfig()
	if cfg.JWTSecret != "s3cr3t" {
		t.Fatalf("secret=%q", cfg.JWTSecret)
	}
	if cfg.ConsumerPrefetch != 50 {
		t.Fatalf("prefetch=%d", cfg.ConsumerPrefetch)
	}
}
