package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearConfigEnv blanks the variables the loader reads so ambient CI
// environments do not leak into the assertions. envdecode treats an empty
// value the same as an unset one.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_VERSION", "APP_DEBUG",
		"SERVER_HOST", "SERVER_PORT",
		"DATABASE_URL", "DATABASE_MAX_OPEN_CONNS", "DATABASE_MAX_IDLE_CONNS",
		"JWT_SECRET", "JWT_ALGORITHM", "TOKEN_TTL_MINUTES", "BCRYPT_COST",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
		"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_PER_SEC", "RATE_LIMIT_BURST", "REQUEST_TIMEOUT_SEC",
	} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.Algorithm != "HS256" {
		t.Fatalf("default algorithm = %q", cfg.Auth.Algorithm)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 {
		t.Fatalf("default CORS origins = %v", cfg.HTTP.CORSOrigins)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfigFile(t, "server:\n  port: 9090\nauth:\n  token_ttl_minutes: 5\n")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090 from the YAML overlay", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTLMinutes != 5 {
		t.Fatalf("token TTL = %d, want 5", cfg.Auth.TokenTTLMinutes)
	}
	// Fields the overlay does not mention keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("host = %q", cfg.Server.Host)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")

	path := writeConfigFile(t, "server:\n  port: 9090\n")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Fatalf("port = %d, want 7070 from the environment", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfigFile(t, "auth:\n  algorithm: RS256\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected an error for an unsupported signing algorithm")
	}
}
