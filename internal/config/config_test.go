package config

import (
	"os"
	"path/filepath"
	"testing"
)

var envKeys = []string{
	"STACKIT_SITE",
	"STACKIT_API_KEY",
	"STACKIT_API_BASE_URL",
	"STACKIT_DB_PATH",
	"STACKIT_PAGE_SIZE",
	"STACKIT_RATE_LIMIT",
	"STACKIT_LOG_PATH",
	"STACKIT_LOG_LEVEL",
	"STACKIT_METRICS_ADDR",
}

// isolateEnv clears every STACKIT_* key for the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}

	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected API base URL: %s", cfg.APIBaseURL)
	}
	if cfg.Site != "stackoverflow" {
		t.Fatalf("unexpected site: %s", cfg.Site)
	}
	if cfg.DBPath != "stackit.db" {
		t.Fatalf("unexpected DB path: %s", cfg.DBPath)
	}
	if cfg.PageSize != 20 || cfg.RateLimit != 10 {
		t.Fatalf("unexpected paging defaults: %+v", cfg)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STACKIT_SITE", "serverfault")
	t.Setenv("STACKIT_PAGE_SIZE", "50")
	t.Setenv("STACKIT_RATE_LIMIT", "2.5")
	t.Setenv("STACKIT_METRICS_ADDR", ":9090")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.Site != "serverfault" || cfg.PageSize != 50 || cfg.RateLimit != 2.5 || cfg.MetricsAddr != ":9090" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadFromEnv_InvalidPageSize(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STACKIT_PAGE_SIZE", "lots")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for non-numeric page size")
	}

	t.Setenv("STACKIT_PAGE_SIZE", "101")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for page size above the API maximum")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "stackit.toml")
	content := `site = "superuser"
db_path = "/tmp/favorites.db"
page_size = 30
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STACKIT_PAGE_SIZE", "40")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Site != "superuser" || cfg.DBPath != "/tmp/favorites.db" || cfg.LogLevel != "debug" {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.PageSize != 40 {
		t.Fatalf("expected env to override file page size, got %d", cfg.PageSize)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("expected default for keys absent from the file, got %s", cfg.APIBaseURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	isolateEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate_APIBaseURLTrailingSlash(t *testing.T) {
	cfg := Default()
	cfg.APIBaseURL = "https://api.stackexchange.com/2.3/"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for log level")
	}
}
