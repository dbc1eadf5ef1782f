package bootstrap

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/authgate")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServiceID != "authgate" || cfg.HTTPPort != 8080 || cfg.GRPCPort != 9090 {
		t.Fatalf("service defaults = %+v", cfg)
	}
	if cfg.AuthMode != "session" || cfg.SessionCookieName != "_my_session_id" {
		t.Fatalf("auth defaults = %+v", cfg)
	}
	if cfg.BcryptCost != 12 || cfg.MaxDBConns != 20 {
		t.Fatalf("tuning defaults = %+v", cfg)
	}
	want := []string{"/", "/healthz", "/api/v1/status", "/users", "/sessions", "/profile", "/reset_password"}
	if !reflect.DeepEqual(cfg.ExcludedPaths, want) {
		t.Fatalf("excluded paths = %v", cfg.ExcludedPaths)
	}
}

func TestLoadConfigFileValues(t *testing.T) {
	path := writeConfigFile(t, `
service:
  id: authgate-dev
  http_port: 8181
  grpc_port: 9191
dependencies:
  postgres_url: postgres://localhost:5432/dev
  redis_url: redis://localhost:6379/0
auth:
  mode: basic
  session_cookie: _dev_session
  excluded_paths:
    - /
    - /healthz
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServiceID != "authgate-dev" || cfg.HTTPPort != 8181 || cfg.GRPCPort != 9191 {
		t.Fatalf("service values = %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/dev" || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("dependency values = %+v", cfg)
	}
	if cfg.AuthMode != "basic" || cfg.SessionCookieName != "_dev_session" {
		t.Fatalf("auth values = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.ExcludedPaths, []string{"/", "/healthz"}) {
		t.Fatalf("excluded paths = %v", cfg.ExcludedPaths)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
dependencies:
  postgres_url: postgres://localhost:5432/dev
auth:
  mode: basic
`)
	t.Setenv("DB_URL", "postgres://db:5432/prod")
	t.Setenv("AUTH_TYPE", "Session")
	t.Setenv("SESSION_NAME", "_prod_session")
	t.Setenv("AUTH_EXCLUDED_PATHS", " / , /api/v1/status ,")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("BCRYPT_ROUNDS", "10")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DatabaseURL != "postgres://db:5432/prod" {
		t.Fatalf("database url = %q", cfg.DatabaseURL)
	}
	if cfg.AuthMode != "session" {
		t.Fatalf("auth mode = %q", cfg.AuthMode)
	}
	if cfg.SessionCookieName != "_prod_session" {
		t.Fatalf("cookie name = %q", cfg.SessionCookieName)
	}
	if !reflect.DeepEqual(cfg.ExcludedPaths, []string{"/", "/api/v1/status"}) {
		t.Fatalf("excluded paths = %v", cfg.ExcludedPaths)
	}
	if cfg.HTTPPort != 9000 || cfg.BcryptCost != 10 {
		t.Fatalf("numeric overrides = %+v", cfg)
	}
}

func TestLoadConfigRejectsUnknownMode(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/authgate")
	t.Setenv("AUTH_TYPE", "token")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("unknown auth mode accepted")
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("POSTGRES_URL", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing database URL accepted")
	}
}
