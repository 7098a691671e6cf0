package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"harvester/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("BING_SEARCH_API_KEY", "test-key")
	t.Setenv("BING_SEARCH_ENDPOINT", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Bing.APIKey != "test-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Bing.APIKey)
	}
	if cfg.Bing.Endpoint != config.Default().Bing.Endpoint {
		t.Fatalf("unexpected endpoint: %q", cfg.Bing.Endpoint)
	}
	wantLogDir := filepath.Join(tempHome, ".local", "share", "harvester", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Harvest.MaxRetries != 3 {
		t.Fatalf("unexpected max retries: %d", cfg.Harvest.MaxRetries)
	}
	if cfg.Harvest.MaxImages != 100 {
		t.Fatalf("unexpected max images: %d", cfg.Harvest.MaxImages)
	}
	if cfg.Harvest.SafeSearch != "Moderate" {
		t.Fatalf("unexpected safe search default: %q", cfg.Harvest.SafeSearch)
	}
	if cfg.RequestDelay() != time.Second {
		t.Fatalf("unexpected request delay: %v", cfg.RequestDelay())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.LogDir); err != nil || !info.IsDir() {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}

func TestLoadMissingAPIKeyFails(t *testing.T) {
	t.Setenv("BING_SEARCH_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when API key is missing")
	}
	if !strings.Contains(err.Error(), "bing.api_key") {
		t.Fatalf("expected api key hint in error, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("BING_SEARCH_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[bing]
api_key = "file-key"
endpoint = "https://example.com/images/search"

[harvest]
request_delay_seconds = 0.25
max_retries = 5
safe_search = "Strict"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Bing.APIKey != "file-key" {
		t.Fatalf("unexpected API key: %q", cfg.Bing.APIKey)
	}
	if cfg.Bing.Endpoint != "https://example.com/images/search" {
		t.Fatalf("unexpected endpoint: %q", cfg.Bing.Endpoint)
	}
	if cfg.Harvest.MaxRetries != 5 {
		t.Fatalf("unexpected max retries: %d", cfg.Harvest.MaxRetries)
	}
	if cfg.RequestDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected request delay: %v", cfg.RequestDelay())
	}
}

func TestEnvKeyOverridesFile(t *testing.T) {
	t.Setenv("BING_SEARCH_API_KEY", "env-key")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[bing]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Bing.APIKey != "env-key" {
		t.Fatalf("expected env key to win, got %q", cfg.Bing.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "negative delay",
			mutate: func(c *config.Config) { c.Harvest.RequestDelaySeconds = -1 },
			want:   "request_delay_seconds",
		},
		{
			name:   "negative min width",
			mutate: func(c *config.Config) { c.Harvest.MinWidth = -10 },
			want:   "min_width",
		},
		{
			name:   "unknown safe search",
			mutate: func(c *config.Config) { c.Harvest.SafeSearch = "Sometimes" },
			want:   "safe_search",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Bing.APIKey = "key"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[bing]") {
		t.Fatal("expected sample to contain a [bing] section")
	}
}
