package app

import (
	"path/filepath"
	"testing"
	"time"

	"NewsScreener/internal/config"
)

func testAppConfig(t *testing.T) config.Config {
	t.Helper()

	cfg := config.Load("")
	cfg.Anthropic.APIKey = "test-key"
	cfg.Database.DSN = ""
	cfg.Redis.Addr = ""
	cfg.History.Path = filepath.Join(t.TempDir(), "history.json")
	return cfg
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Anthropic.APIKey = ""

	if _, err := New(cfg, Options{}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestNewMetricsAddrFromConfig(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Daemon.MetricsAddr = ":9090"

	application, err := New(cfg, Options{Daemon: true, Interval: time.Hour}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if application.opts.MetricsAddr != ":9090" {
		t.Fatalf("expected metrics addr from config, got %q", application.opts.MetricsAddr)
	}
	if application.metrics == nil {
		t.Fatal("expected metrics enabled when config provides an address")
	}
}

func TestNewMetricsAddrFlagWins(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Daemon.MetricsAddr = ":9090"

	application, err := New(cfg, Options{Daemon: true, MetricsAddr: ":9999"}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if application.opts.MetricsAddr != ":9999" {
		t.Fatalf("expected flag to win, got %q", application.opts.MetricsAddr)
	}
}

func TestNewWithoutDaemonSkipsMetrics(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Daemon.MetricsAddr = ":9090"

	application, err := New(cfg, Options{}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if application.metrics != nil {
		t.Fatal("metrics must stay disabled outside daemon mode")
	}
}
