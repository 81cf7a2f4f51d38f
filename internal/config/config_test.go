package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LAKEDASH_HOME", tmpDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.HomeDir != tmpDir {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, tmpDir)
	}
	if cfg.Backend.URL != "" {
		t.Errorf("Backend.URL = %q, want empty", cfg.Backend.URL)
	}
	if got := cfg.Backend.Timeout(); got != 30*time.Second {
		t.Errorf("Backend.Timeout() = %v, want 30s", got)
	}
	if cfg.UI.Locale != "en" {
		t.Errorf("UI.Locale = %q, want en", cfg.UI.Locale)
	}
	if cfg.UI.PreviewRows != 10 {
		t.Errorf("UI.PreviewRows = %d, want 10", cfg.UI.PreviewRows)
	}
	if cfg.Report.Out != "lakedash-report.html" {
		t.Errorf("Report.Out = %q, want lakedash-report.html", cfg.Report.Out)
	}
	if cfg.Demo.Listen != "127.0.0.1:8787" {
		t.Errorf("Demo.Listen = %q, want 127.0.0.1:8787", cfg.Demo.Listen)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LAKEDASH_HOME", tmpDir)

	configContent := `
[backend]
url = "https://myapp.example.com"
token = "dapi-secret"
allow_insecure = true
timeout_seconds = 5

[ui]
locale = "de"
preview_rows = 25

[report]
out = "~/reports/out.html"
schedule = "*/15 * * * *"
`
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.URL != "https://myapp.example.com" {
		t.Errorf("Backend.URL = %q, want https://myapp.example.com", cfg.Backend.URL)
	}
	if cfg.Backend.Token != "dapi-secret" {
		t.Errorf("Backend.Token = %q, want dapi-secret", cfg.Backend.Token)
	}
	if !cfg.Backend.AllowInsecure {
		t.Error("Backend.AllowInsecure = false, want true")
	}
	if got := cfg.Backend.Timeout(); got != 5*time.Second {
		t.Errorf("Backend.Timeout() = %v, want 5s", got)
	}
	if cfg.UI.Locale != "de" {
		t.Errorf("UI.Locale = %q, want de", cfg.UI.Locale)
	}
	if cfg.UI.PreviewRows != 25 {
		t.Errorf("UI.PreviewRows = %d, want 25", cfg.UI.PreviewRows)
	}
	if cfg.Report.Schedule != "*/15 * * * *" {
		t.Errorf("Report.Schedule = %q, want */15 * * * *", cfg.Report.Schedule)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}
	wantOut := filepath.Join(home, "reports/out.html")
	if cfg.Report.Out != wantOut {
		t.Errorf("Report.Out = %q, want %q (tilde expanded)", cfg.Report.Out, wantOut)
	}
}

func TestLoadEnvTokenOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LAKEDASH_HOME", tmpDir)

	configContent := `
[backend]
token = "from-file"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("LAKEDASH_TOKEN", "from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.Token != "from-env" {
		t.Errorf("Backend.Token = %q, want the environment override", cfg.Backend.Token)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.toml")
	if err := os.WriteFile(configPath, []byte("[ui]\npreview_rows = 7\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", configPath, err)
	}
	if cfg.UI.PreviewRows != 7 {
		t.Errorf("UI.PreviewRows = %d, want 7", cfg.UI.PreviewRows)
	}
}

func TestLoadExplicitPathNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Fatal("Load with explicit nonexistent path should return error")
	}
	if got := err.Error(); !strings.Contains(got, "config file not found") {
		t.Errorf("error = %q, want it to contain %q", got, "config file not found")
	}
}

func TestLoadUnknownKeysIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LAKEDASH_HOME", tmpDir)

	configContent := `
[backend]
url = "https://myapp.example.com"
retries = 3
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() should ignore unknown keys, got error: %v", err)
	}
	if cfg.Backend.URL != "https://myapp.example.com" {
		t.Errorf("Backend.URL = %q, want https://myapp.example.com", cfg.Backend.URL)
	}
}

func TestBackendTimeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{0, 30 * time.Second},
		{-1, 30 * time.Second},
		{5, 5 * time.Second},
		{120, 2 * time.Minute},
	}

	for _, tt := range tests {
		b := BackendConfig{TimeoutSeconds: tt.seconds}
		if got := b.Timeout(); got != tt.want {
			t.Errorf("Timeout() with %d seconds = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("LAKEDASH_HOME", tmpDir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.Backend.URL = "https://myapp.example.com"
	cfg.Backend.Token = "dapi-secret"
	cfg.UI.PreviewRows = 15

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(cfg.ConfigPath())
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if perm := info.Mode().Perm(); perm&^os.FileMode(0o600) != 0 {
			t.Errorf("config file perm = %04o, has bits beyond 0600", perm)
		}
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load() after Save error = %v", err)
	}
	if loaded.Backend.URL != "https://myapp.example.com" {
		t.Errorf("Backend.URL = %q, want saved value", loaded.Backend.URL)
	}
	if loaded.Backend.Token != "dapi-secret" {
		t.Errorf("Backend.Token = %q, want saved value", loaded.Backend.Token)
	}
	if loaded.UI.PreviewRows != 15 {
		t.Errorf("UI.PreviewRows = %d, want 15", loaded.UI.PreviewRows)
	}
}

func TestDefaultHomeRespectsEnv(t *testing.T) {
	t.Setenv("LAKEDASH_HOME", "/opt/lakedash-home")
	if got := DefaultHome(); got != "/opt/lakedash-home" {
		t.Errorf("DefaultHome() = %q, want /opt/lakedash-home", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to get user home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"just tilde", "~", home},
		{"tilde with path", "~/foo", filepath.Join(home, "foo")},
		{"relative path unchanged", "relative/path", "relative/path"},
		{"nested path after tilde", "~/foo/bar/baz", filepath.Join(home, "foo/bar/baz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
