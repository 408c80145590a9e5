package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Client.ConnectTimeoutMS <= 0 {
		t.Fatalf("default connect timeout = %d", cfg.Client.ConnectTimeoutMS)
	}
	if cfg.Contract == "" {
		t.Fatalf("default contract empty")
	}
	if cfg.Log.Level == "" || len(cfg.Log.Outputs) == 0 {
		t.Fatalf("default log config incomplete: %+v", cfg.Log)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wirecall.yaml")
	body := []byte("contract: custom.Svc\nclient:\n  connect_timeout_ms: 250\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Contract != "custom.Svc" {
		t.Fatalf("contract = %q", cfg.Contract)
	}
	if cfg.Client.ConnectTimeoutMS != 250 {
		t.Fatalf("connect timeout = %d", cfg.Client.ConnectTimeoutMS)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
	// untouched keys keep defaults
	if cfg.Log.Format != "console" {
		t.Fatalf("log format = %q", cfg.Log.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("want error for explicit missing file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("WIRECALL_CLIENT_CONNECT_TIMEOUT_MS", "750")
	path := filepath.Join(t.TempDir(), "wirecall.yaml")
	if err := os.WriteFile(path, []byte("app_name: envtest\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Client.ConnectTimeoutMS != 750 {
		t.Fatalf("env override ignored: %d", cfg.Client.ConnectTimeoutMS)
	}
}
