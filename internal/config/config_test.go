// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, env overrides, .env files and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate runs the test from an empty directory with no DAIRY_* variables set
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"DAIRY_API_URL", "DAIRY_CLIENT_TYPE", "DAIRY_HTTP_TIMEOUT", "DAIRY_CONFIG_DIR",
		"LOG_LEVEL", "LOG_FORMAT", "DAIRY_DEV_ADDR", "DAIRY_DEV_DB", "DAIRY_DEV_JWT_SECRET",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected APIURL %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.ClientType != "web" {
		t.Errorf("Expected client type web, got %s", cfg.ClientType)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Timeout())
	}
	if want := filepath.Join(dir, "xdg", "dairy"); cfg.ConfigDir != want {
		t.Errorf("Expected config dir %s, got %s", want, cfg.ConfigDir)
	}
	if cfg.DevAddr != ":8080" {
		t.Errorf("Expected dev addr :8080, got %s", cfg.DevAddr)
	}
	if cfg.DevDB != "file::memory:?cache=shared" {
		t.Errorf("Unexpected dev DB %s", cfg.DevDB)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DAIRY_API_URL", "http://localhost:8080///")
	t.Setenv("DAIRY_CLIENT_TYPE", "cli")
	t.Setenv("DAIRY_HTTP_TIMEOUT", "5")
	t.Setenv("DAIRY_CONFIG_DIR", "/tmp/dairy-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != "http://localhost:8080/" {
		t.Errorf("Expected normalized URL, got %s", cfg.APIURL)
	}
	if cfg.ClientType != "cli" {
		t.Errorf("Expected client type cli, got %s", cfg.ClientType)
	}
	if cfg.HTTPTimeout != 5 {
		t.Errorf("Expected timeout 5, got %d", cfg.HTTPTimeout)
	}
	if cfg.ConfigDir != "/tmp/dairy-test" {
		t.Errorf("Expected config dir override, got %s", cfg.ConfigDir)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := isolate(t)
	// godotenv skips keys that are set, even to empty; isolate's t.Setenv restores it afterwards
	os.Unsetenv("DAIRY_DEV_JWT_SECRET")
	env := "DAIRY_DEV_JWT_SECRET=from-dotenv\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.DevJWTSecret != "from-dotenv" {
		t.Errorf("Expected secret from .env, got %q", cfg.DevJWTSecret)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"ftp scheme", "DAIRY_API_URL", "ftp://example.com", "http or https"},
		{"no host", "DAIRY_API_URL", "http://", "host"},
		{"zero timeout", "DAIRY_HTTP_TIMEOUT", "0", "DAIRY_HTTP_TIMEOUT"},
		{"negative timeout", "DAIRY_HTTP_TIMEOUT", "-3", "DAIRY_HTTP_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSetAPIURL(t *testing.T) {
	cfg := &Config{APIURL: DefaultAPIURL, HTTPTimeout: 30, ClientType: "web"}

	cfg.SetAPIURL("")
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Empty override must keep the current URL, got %s", cfg.APIURL)
	}

	cfg.SetAPIURL("https://api.example.com")
	if cfg.APIURL != "https://api.example.com/" {
		t.Errorf("Expected trailing slash, got %s", cfg.APIURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}
