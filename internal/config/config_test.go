package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Scheduler.Interval() != 15*time.Minute {
		t.Fatalf("expected 15m default interval, got %v", cfg.Scheduler.Interval())
	}
	if !cfg.Scheduler.RunOnStart {
		t.Fatal("expected eager first run by default")
	}
	if len(cfg.Sources) != 3 {
		t.Fatalf("expected 3 default sources, got %d", len(cfg.Sources))
	}
	for _, src := range cfg.Sources {
		if src.Scanner != "html" {
			t.Fatalf("default source %s must use the html scanner, got %q", src.Name, src.Scanner)
		}
	}
	if cfg.WhatsApp.Endpoint == "" {
		t.Fatal("expected default messaging endpoint")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://env@db:5432/override")
	t.Setenv("WASENDER_API_KEY", "env-token")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Database.DSN != "postgres://env@db:5432/override" {
		t.Fatalf("env DSN not applied: %s", cfg.Database.DSN)
	}
	if cfg.WhatsApp.APIKey != "env-token" {
		t.Fatalf("env API key not applied: %s", cfg.WhatsApp.APIKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("env log level not applied: %s", cfg.Logging.Level)
	}
}

func TestLoadYAMLFileMerge(t *testing.T) {
	raw := `
scheduler:
  intervalMinutes: 5
  graceSeconds: 30
whatsapp:
  dashboardHost: painel.example.com
sources:
  - name: Feed Teste
    scanner: rss
    url: https://example.com/feed.xml
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GEOECONEWS_CONFIG", path)

	cfg := Load()

	if cfg.Scheduler.Interval() != 5*time.Minute {
		t.Fatalf("file interval not applied: %v", cfg.Scheduler.Interval())
	}
	if cfg.Scheduler.Grace() != 30*time.Second {
		t.Fatalf("file grace not applied: %v", cfg.Scheduler.Grace())
	}
	if cfg.WhatsApp.DashboardHost != "painel.example.com" {
		t.Fatalf("file dashboard host not applied: %s", cfg.WhatsApp.DashboardHost)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Scanner != "rss" {
		t.Fatalf("file sources not applied: %+v", cfg.Sources)
	}
	// Defaults survive where the file is silent.
	if cfg.WhatsApp.Endpoint == "" {
		t.Fatal("expected default endpoint to survive merge")
	}
}
