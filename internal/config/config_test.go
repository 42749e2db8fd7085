package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StartingBudget != 100 {
		t.Fatalf("StartingBudget = %v, want 100", cfg.StartingBudget)
	}
	if cfg.SellTaxRate != 0.10 {
		t.Fatalf("SellTaxRate = %v, want 0.10", cfg.SellTaxRate)
	}
	if cfg.MaxSquadSize != 18 || cfg.MaxStarters != 11 || cfg.MaxBench != 7 {
		t.Fatalf("squad sizes = %d/%d/%d", cfg.MaxSquadSize, cfg.MaxStarters, cfg.MaxBench)
	}
	if cfg.CaptainMultiplier != 2.0 || cfg.StarterMultiplier != 1.0 || cfg.BenchMultiplier != 0.5 {
		t.Fatalf("multipliers = %v/%v/%v", cfg.CaptainMultiplier, cfg.StarterMultiplier, cfg.BenchMultiplier)
	}
	if cfg.DefaultFormation != "4-3-3" {
		t.Fatalf("DefaultFormation = %q", cfg.DefaultFormation)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Fatalf("CacheTTL = %s", cfg.CacheTTL)
	}
}

func TestLoad_SquadSizesMustAgree(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("MAX_SQUAD_SIZE", "20")
	t.Setenv("MAX_STARTERS", "11")
	t.Setenv("MAX_BENCH", "7")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when MAX_SQUAD_SIZE != MAX_STARTERS + MAX_BENCH")
	}
}

func TestLoad_SellTaxRateBounds(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SELL_TAX_RATE", "1.5")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for SELL_TAX_RATE >= 1")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/123"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/123" {
		t.Fatalf("UptraceDSN = %q", cfg.UptraceDSN)
	}
}

func TestLoad_StatsFeedRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STATSFEED_ENABLED", "true")
	t.Setenv("STATSFEED_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STATSFEED_ENABLED=true without STATSFEED_TOKEN")
	}
}
