package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/viralforge/authgate/internal/application"
	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for authgate.
// It merges file defaults and environment overrides to support both local and
// deployed runs. The auth mode and excluded-path list are startup data; the
// core never reads them from a mutable global.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	AuthMode          string
	SessionCookieName string
	ExcludedPaths     []string

	BcryptCost int
	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Auth struct {
		Mode          string   `yaml:"mode"`
		SessionCookie string   `yaml:"session_cookie"`
		ExcludedPaths []string `yaml:"excluded_paths"`
	} `yaml:"auth"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific
// overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:         "authgate",
		HTTPPort:          8080,
		GRPCPort:          9090,
		AuthMode:          application.ModeSession,
		SessionCookieName: "_my_session_id",
		ExcludedPaths: []string{
			"/",
			"/healthz",
			"/api/v1/status",
			"/users",
			"/sessions",
			"/profile",
			"/reset_password",
		},
		BcryptCost: 12,
		MaxDBConns: 20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Auth.Mode != "" {
			cfg.AuthMode = f.Auth.Mode
		}
		if f.Auth.SessionCookie != "" {
			cfg.SessionCookieName = f.Auth.SessionCookie
		}
		if len(f.Auth.ExcludedPaths) > 0 {
			cfg.ExcludedPaths = f.Auth.ExcludedPaths
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.AuthMode = strings.ToLower(strings.TrimSpace(envOrDefault("AUTH_TYPE", cfg.AuthMode)))
	cfg.SessionCookieName = envOrDefault("SESSION_NAME", cfg.SessionCookieName)
	cfg.ExcludedPaths = envCSV("AUTH_EXCLUDED_PATHS", cfg.ExcludedPaths)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	switch cfg.AuthMode {
	case application.ModeNone, application.ModeBasic, application.ModeSession:
	default:
		return Config{}, fmt.Errorf("unknown AUTH_TYPE %q", cfg.AuthMode)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
