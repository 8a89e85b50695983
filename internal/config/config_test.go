// ABOUTME: Tests for configuration loading
// ABOUTME: Covers env var expansion, duration parsing, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/reserveme.db"
auth:
  jwt_secret: "test-secret"
  access_token_ttl: 5m
  refresh_token_ttl: 48h
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "localhost:8080" {
		t.Errorf("HTTPAddr = %q, want localhost:8080", cfg.Server.HTTPAddr)
	}
	if cfg.Database.Path != "/tmp/reserveme.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Auth.AccessTokenTTL != 5*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 5m", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != 48*time.Hour {
		t.Errorf("RefreshTokenTTL = %v, want 48h", cfg.Auth.RefreshTokenTTL)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_DefaultTTLs(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/reserveme.db"
auth:
  jwt_secret: "test-secret"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.AccessTokenTTL != DefaultAccessTokenTTL {
		t.Errorf("AccessTokenTTL = %v, want default %v", cfg.Auth.AccessTokenTTL, DefaultAccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != DefaultRefreshTokenTTL {
		t.Errorf("RefreshTokenTTL = %v, want default %v", cfg.Auth.RefreshTokenTTL, DefaultRefreshTokenTTL)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("RESERVEME_TEST_SECRET", "expanded-secret")

	path := writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/reserveme.db"
auth:
  jwt_secret: "${RESERVEME_TEST_SECRET}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.JWTSecret != "expanded-secret" {
		t.Errorf("JWTSecret = %q, want expanded-secret", cfg.Auth.JWTSecret)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"missing http_addr",
			"database:\n  path: /tmp/x.db\nauth:\n  jwt_secret: s\n",
		},
		{
			"missing database path",
			"server:\n  http_addr: localhost:8080\nauth:\n  jwt_secret: s\n",
		},
		{
			"missing jwt_secret",
			"server:\n  http_addr: localhost:8080\ndatabase:\n  path: /tmp/x.db\n",
		},
		{
			"bad duration",
			"server:\n  http_addr: localhost:8080\ndatabase:\n  path: /tmp/x.db\nauth:\n  jwt_secret: s\n  access_token_ttl: soon\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() succeeded on missing file, want error")
	}
}
