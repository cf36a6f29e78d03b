package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// chdir mirrors t.Chdir (Go 1.24+), unavailable on this toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_FromFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "store-desk.yaml")
	content := `api:
  base_url: http://localhost:9090
  timeout: 5s
catalog:
  page_size: 25
log_level: debug
`
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	InitViper(cfgPath)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:9090" || cfg.API.Timeout != "5s" {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Catalog.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Catalog.PageSize)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	// Unset keys still pick up defaults.
	if cfg.API.CacheTTL != "30s" {
		t.Errorf("CacheTTL = %q, want default 30s", cfg.API.CacheTTL)
	}
	if ConfigFileUsed() != cfgPath {
		t.Errorf("ConfigFileUsed() = %q, want %q", ConfigFileUsed(), cfgPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	resetViper(t)

	InitViper(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Fatal("an explicitly named missing file should be an error")
	}

	resetViper(t)
	chdir(t, t.TempDir())

	InitViper("")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() without a file failed: %v", err)
	}
	if cfg.API.BaseURL != "https://dummyjson.com" || cfg.Catalog.PageSize != 10 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	resetViper(t)
	chdir(t, t.TempDir())

	t.Setenv("STORE_DESK_API_BASE_URL", "http://localhost:7070")
	t.Setenv("STORE_DESK_CATALOG_PAGE_SIZE", "50")
	t.Setenv("STORE_DESK_LOG_LEVEL", "warn")

	InitViper("")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:7070" {
		t.Errorf("BaseURL = %q, env override not applied", cfg.API.BaseURL)
	}
	if cfg.Catalog.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Catalog.PageSize)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestFindConfigFileInPaths(t *testing.T) {
	dir := t.TempDir()
	empty := t.TempDir()

	if got := findConfigFileInPaths([]string{empty, dir}); got != "" {
		t.Errorf("found %q in empty dirs", got)
	}

	want := filepath.Join(dir, "store-desk.yml")
	if err := os.WriteFile(want, []byte("{}\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFileInPaths([]string{empty, dir}); got != want {
		t.Errorf("findConfigFileInPaths() = %q, want %q", got, want)
	}
}
