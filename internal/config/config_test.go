package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
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
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.DefaultResultPolicy != competition.ResultPolicyStandard || cfg.DefaultLockPolicy != competition.LockPolicyGameweek {
		t.Fatalf("unexpected default policies: %s %s", cfg.DefaultResultPolicy, cfg.DefaultLockPolicy)
	}
	if cfg.DefaultLivesPerRound != 1 {
		t.Fatalf("unexpected lives per round: %d", cfg.DefaultLivesPerRound)
	}
	if cfg.TiebreakFallbackWindow != 72*time.Hour {
		t.Fatalf("unexpected tiebreak fallback window: %s", cfg.TiebreakFallbackWindow)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_EngineSettings(t *testing.T) {
	t.Setenv("APP_ENV", "stage")
	t.Setenv("APP_LOG_LEVEL", "warning")
	t.Setenv("LMS_DEFAULT_RESULT_POLICY", "strict")
	t.Setenv("LMS_DEFAULT_LOCK_POLICY", "kickoff")
	t.Setenv("LMS_DEFAULT_LIVES_PER_ROUND", "2")
	t.Setenv("LMS_TIEBREAK_MAX_SCORE", "50")
	t.Setenv("LMS_INGEST_WORKERS", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvStaging {
		t.Fatalf("expected stage alias to map to staging, got %q", cfg.AppEnv)
	}
	if cfg.DefaultResultPolicy != competition.ResultPolicyStrict || cfg.DefaultLockPolicy != competition.LockPolicyKickoff {
		t.Fatalf("unexpected policies: %s %s", cfg.DefaultResultPolicy, cfg.DefaultLockPolicy)
	}
	if cfg.DefaultLivesPerRound != 2 || cfg.TiebreakMaxScore != 50 || cfg.IngestWorkers != 8 {
		t.Fatalf("unexpected engine settings: %+v", cfg)
	}
	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage", env: map[string]string{"STORAGE_DRIVER": "redis"}},
		{name: "postgres without url", env: map[string]string{"STORAGE_DRIVER": "postgres", "DB_URL": ""}},
		{name: "unknown result policy", env: map[string]string{"LMS_DEFAULT_RESULT_POLICY": "lenient"}},
		{name: "zero lives", env: map[string]string{"LMS_DEFAULT_LIVES_PER_ROUND": "0"}},
		{name: "bad fallback window", env: map[string]string{"LMS_TIEBREAK_FALLBACK_WINDOW": "soon"}},
		{name: "zero workers", env: map[string]string{"LMS_INGEST_WORKERS": "0"}},
		{name: "prod without admin token", env: map[string]string{"APP_ENV": EnvProd, "ADMIN_TOKEN": ""}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": ""}},
		{name: "pyroscope without address", env: map[string]string{"PYROSCOPE_ENABLED": "true"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders(`foo=bar, uptrace-dsn="https://token@api.uptrace.dev/1"`)
	if got != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected dsn: %q", got)
	}
}
