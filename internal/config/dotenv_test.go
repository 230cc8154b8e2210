package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore wd %s: %v", wd, err)
		}
	})
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	unsetEnv(t, "A")
	unsetEnv(t, "B")
	unsetEnv(t, "C")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := []byte(`
# comment

A=one
export B=two
C="three"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("A"); got != "one" {
		t.Fatalf("A=%q, want %q", got, "one")
	}
	if got := os.Getenv("B"); got != "two" {
		t.Fatalf("B=%q, want %q", got, "two")
	}
	if got := os.Getenv("C"); got != "three" {
		t.Fatalf("C=%q, want %q", got, "three")
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("KEEP=fromfile\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("KEEP"); got != "already" {
		t.Fatalf("KEEP=%q, want %q", got, "already")
	}
}

func TestLoadDotEnv_StripsSingleQuotes(t *testing.T) {
	unsetEnv(t, "Q")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("Q='hello world'\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("Q"); got != "hello world" {
		t.Fatalf("Q=%q, want %q", got, "hello world")
	}
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"APP_ENV", "DB_PATH", "PORT", "CURRENCY", "QUIET_PERIOD", "SESSION_IDLE_TIMEOUT", "RATE_LIMIT", "RATE_BURST"} {
		unsetEnv(t, key)
	}
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg := Load()
	if cfg.Port != defaultPort || cfg.DBPath != defaultDBPath || cfg.Currency != "USD" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.QuietPeriod != time.Second {
		t.Fatalf("QuietPeriod = %v, want 1s", cfg.QuietPeriod)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev by default")
	}

	t.Setenv("APP_ENV", "production")
	t.Setenv("QUIET_PERIOD", "250ms")
	t.Setenv("RATE_BURST", "nope")
	t.Setenv("CURRENCY", "EUR")

	cfg = Load()
	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
	if cfg.QuietPeriod != 250*time.Millisecond {
		t.Fatalf("QuietPeriod = %v, want 250ms", cfg.QuietPeriod)
	}
	if cfg.RateBurst != defaultRateBurst {
		t.Fatalf("RateBurst = %d, want fallback %d", cfg.RateBurst, defaultRateBurst)
	}
	if cfg.Currency != "EUR" {
		t.Fatalf("Currency = %q", cfg.Currency)
	}
}
