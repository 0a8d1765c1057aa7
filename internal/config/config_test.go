package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("server.request_timeout = %v, want 30s", cfg.Server.RequestTimeout)
	}
	if cfg.Database.Path != "./data/leadrail.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Automation.Workers != 4 || cfg.Automation.QueueSize != 256 {
		t.Errorf("automation defaults = %d/%d, want 4/256", cfg.Automation.Workers, cfg.Automation.QueueSize)
	}
	if cfg.SMTP.Host != "" {
		t.Errorf("smtp.host = %q, want unset", cfg.SMTP.Host)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis.addr = %q, want unset", cfg.Redis.Addr)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 9000\ndatabase:\n  path: /tmp/from-file.db\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// Env beats file, file beats defaults.
	t.Setenv("LEADRAIL_DATABASE__PATH", "/tmp/from-env.db")
	t.Setenv("LEADRAIL_AUTOMATION__WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d, want 9000 from file", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Errorf("database.path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Automation.Workers != 8 {
		t.Errorf("automation.workers = %d, want 8 from env", cfg.Automation.Workers)
	}
}

func TestLoad_MissingFileIsSkipped(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want absent file skipped", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want default", cfg.Server.Port)
	}
}
