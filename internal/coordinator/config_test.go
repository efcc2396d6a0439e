package coordinator

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") returned error: %v", err)
	}
	want := DefaultConfig()
	if cfg.APIAddr != want.APIAddr || cfg.BroadcastPort != want.BroadcastPort ||
		cfg.Tick != want.Tick || cfg.ConnectTimeout != want.ConnectTimeout {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfigOverlaysOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "apiAddr: \":9000\"\ntick: 2s\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIAddr != ":9000" {
		t.Errorf("APIAddr = %q, want :9000", cfg.APIAddr)
	}
	if cfg.Tick != 2*time.Second {
		t.Errorf("Tick = %v, want 2s", cfg.Tick)
	}
	if cfg.BroadcastPort != DefaultConfig().BroadcastPort {
		t.Errorf("BroadcastPort = %d, want untouched default", cfg.BroadcastPort)
	}
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing config file, got nil")
	}
}
