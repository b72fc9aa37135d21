package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fullYAML = `
server:
  url: https://vbr.example.net/
  timeout_seconds: 10

data_dir: /var/lib/hostdesk

houses:
  - code: "193"
    label: 193 Vauxhall Bridge Rd
  - code: "195"

watch:
  schedule: "*/2 * * * *"
  notify_command: "notify-send '{{.Title}}' '{{.Body}}'"
  sync: true
`

const minimalYAML = `
server:
  url: http://10.0.0.9:8000
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.URL != "https://vbr.example.net" {
		t.Errorf("Server.URL = %q, want trailing slash stripped", cfg.Server.URL)
	}
	if cfg.Server.Timeout() != 10*time.Second {
		t.Errorf("Server.Timeout() = %v, want 10s", cfg.Server.Timeout())
	}
	if cfg.DataDir != "/var/lib/hostdesk" {
		t.Errorf("DataDir = %q, want /var/lib/hostdesk", cfg.DataDir)
	}
	if len(cfg.Houses) != 2 {
		t.Fatalf("len(Houses) = %d, want 2", len(cfg.Houses))
	}
	if cfg.Houses[0].Label != "193 Vauxhall Bridge Rd" {
		t.Errorf("Houses[0].Label = %q, want full label", cfg.Houses[0].Label)
	}
	if cfg.Houses[1].Label != "195" {
		t.Errorf("Houses[1].Label = %q, want code fallback %q", cfg.Houses[1].Label, "195")
	}
	if cfg.Watch.Schedule != "*/2 * * * *" {
		t.Errorf("Watch.Schedule = %q, want */2 * * * *", cfg.Watch.Schedule)
	}
	if !cfg.Watch.Sync {
		t.Error("Watch.Sync = false, want true")
	}
}

func TestParse_MinimalConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Timeout() != 30*time.Second {
		t.Errorf("Server.Timeout() = %v, want 30s (default)", cfg.Server.Timeout())
	}
	if len(cfg.Houses) != 2 {
		t.Fatalf("len(Houses) = %d, want 2 (default houses)", len(cfg.Houses))
	}
	if cfg.Houses[0].Code != "193" || cfg.Houses[1].Code != "195" {
		t.Errorf("default house codes = %q, %q, want 193, 195", cfg.Houses[0].Code, cfg.Houses[1].Code)
	}
	if cfg.Watch.Schedule != "*/5 * * * *" {
		t.Errorf("Watch.Schedule = %q, want */5 * * * * (default)", cfg.Watch.Schedule)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir is empty, want default data dir")
	}
}

func TestParse_NilInput_UsesAllDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.URL != "http://127.0.0.1:8000" {
		t.Errorf("Server.URL = %q, want default", cfg.Server.URL)
	}
}

func TestParse_InvalidURL(t *testing.T) {
	_, err := Parse([]byte("server:\n  url: vbr.example.net\n"))
	if err == nil {
		t.Fatal("expected validation error for URL without scheme")
	}
	if !strings.Contains(err.Error(), "server.url") {
		t.Errorf("error = %v, want mention of server.url", err)
	}
}

func TestParse_DuplicateHouseCode(t *testing.T) {
	yaml := `
houses:
  - code: "193"
  - code: "193"
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected validation error for duplicate house code")
	}
	if !strings.Contains(err.Error(), "duplicated") {
		t.Errorf("error = %v, want mention of duplication", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.URL != "https://vbr.example.net" {
		t.Errorf("Server.URL = %q after Load", cfg.Server.URL)
	}
}

func TestPaths(t *testing.T) {
	cfg, err := Parse([]byte("data_dir: /tmp/hd\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.SessionPath(); got != filepath.Join("/tmp/hd", "session.json") {
		t.Errorf("SessionPath() = %q", got)
	}
	if got := cfg.HistoryPath(); got != filepath.Join("/tmp/hd", "history.db") {
		t.Errorf("HistoryPath() = %q", got)
	}
	if got := cfg.LogPath(); got != filepath.Join("/tmp/hd", "hostdesk.log") {
		t.Errorf("LogPath() = %q", got)
	}
}
