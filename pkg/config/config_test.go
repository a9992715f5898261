package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PAGTO_HOME", home)
	t.Setenv("PAGTO_DB_PATH", "")
	t.Setenv("PAGTO_RECEIPTS_DIR", "")
	t.Setenv("PAGTO_LEGACY_CSV", "")
	t.Setenv("PAGTO_CURRENCY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Home != home {
		t.Errorf("Home = %q, expected %q", cfg.Home, home)
	}
	if cfg.Currency != "R$" {
		t.Errorf("Currency = %q, expected R$", cfg.Currency)
	}
	if cfg.DBPath != "" || cfg.ReceiptsDir != "" || cfg.LegacyCSV != "" {
		t.Errorf("path fields should stay empty for pathutil to default: %+v", cfg)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PAGTO_HOME", home)
	t.Setenv("PAGTO_DB_PATH", "")
	t.Setenv("PAGTO_CURRENCY", "")

	yaml := "db_path: /data/pagto.db\ncurrency: \"US$\"\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config.yaml: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/data/pagto.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Currency != "US$" {
		t.Errorf("Currency = %q", cfg.Currency)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PAGTO_HOME", home)
	t.Setenv("PAGTO_DB_PATH", "/env/pagto.db")
	t.Setenv("PAGTO_CURRENCY", "")

	yaml := "db_path: /file/pagto.db\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config.yaml: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/env/pagto.db" {
		t.Errorf("DBPath = %q, environment should win over the file", cfg.DBPath)
	}
}

func TestLoadDotEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PAGTO_HOME", home)
	// godotenv never overrides a variable that is already present, even
	// when empty, so the override target must be truly unset. t.Setenv
	// registers the restore; Unsetenv clears it for the test body.
	t.Setenv("PAGTO_CURRENCY", "")
	os.Unsetenv("PAGTO_CURRENCY")

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("PAGTO_CURRENCY=€\n"), 0o644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Currency != "€" {
		t.Errorf("Currency = %q, expected value from .env", cfg.Currency)
	}

	if _, err := Load(filepath.Join(home, "missing.env")); err == nil {
		t.Error("expected error for an explicitly named missing .env file")
	}
}
