package observability

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/config"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "last-man-standing-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSN(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, ServiceName: "last-man-standing-api"}

	shutdown, err := InitUptrace(cfg, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestPyroscopeConfig_DefaultsAppName(t *testing.T) {
	cfg := config.Config{
		ServiceName:         "last-man-standing-api",
		ServiceVersion:      "1.2.0",
		AppEnv:              config.EnvProd,
		PyroscopeUploadRate: 15 * time.Second,
	}

	got := pyroscopeConfig(cfg)
	if got.ApplicationName != "last-man-standing-api" {
		t.Fatalf("unexpected application name %q", got.ApplicationName)
	}
	if got.Tags["env"] != config.EnvProd || got.Tags["version"] != "1.2.0" {
		t.Fatalf("unexpected tags %+v", got.Tags)
	}
	if got.UploadRate != 15*time.Second {
		t.Fatalf("unexpected upload rate %s", got.UploadRate)
	}
}
