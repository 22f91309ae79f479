package main

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
)

func TestRun_RejectsBadArgumentsWithoutDatabase(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
	}{
		{name: "no command", args: nil, wantUsage: true},
		{name: "unknown command", args: []string{"sideways"}, wantUsage: true},
		{name: "force without version", args: []string{"force"}, wantUsage: true},
		{name: "goto without target", args: []string{"goto"}, wantUsage: true},
		{name: "zero down steps", args: []string{"down", "0"}},
		{name: "negative force", args: []string{"force", "-1"}},
		{name: "bad target", args: []string{"goto", "latest"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_URL", "")
			err := run(tt.args, logging.NewNop())
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := errors.Is(err, errUsage); got != tt.wantUsage {
				t.Fatalf("errors.Is(err, errUsage)=%v want=%v (%v)", got, tt.wantUsage, err)
			}
		})
	}
}

func TestRun_RequiresDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	err := run([]string{"up"}, logging.NewNop())
	if err == nil || err.Error() != "DB_URL is required" {
		t.Fatalf("expected DB_URL error, got %v", err)
	}
}

func TestParseSteps(t *testing.T) {
	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("default steps: got %d, %v", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("explicit steps: got %d, %v", got, err)
	}
}

func TestNormalizeDBURL(t *testing.T) {
	in := "postgres://u:p@localhost:5432/last_man_standing?sslmode=disable"
	if got := normalizeDBURL(in, false); got != in {
		t.Fatalf("expected url unchanged, got %q", got)
	}
	if got := normalizeDBURL(in, true); got == in {
		t.Fatalf("expected prepared binary flag to be appended")
	}
}
