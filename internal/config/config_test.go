package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearConfigEnv unsets every env var the loader reads so tests are not
// affected by the surrounding environment.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"SERVER_PORT", "SERVER_MODE",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"DB_MAX_IDLE_CONNS", "DB_MAX_OPEN_CONNS", "DB_CONN_MAX_LIFETIME",
		"JWT_SECRET", "JWT_ISSUER",
		"AUTH_SERVICE_URL", "ENROLLMENT_SERVICE_URL", "SERVICES_REQUEST_TIMEOUT",
		"LOG_LEVEL", "LOG_FORMAT",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENROLLMENT_SERVICE_URL", "http://localhost:3002")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("expected default port 3000, got %s", cfg.Server.Port)
	}
	if cfg.Server.Mode != "development" {
		t.Errorf("expected default mode development, got %s", cfg.Server.Mode)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("expected default db host localhost, got %s", cfg.Database.Host)
	}
	if cfg.JWT.Issuer != "course-service" {
		t.Errorf("expected default issuer course-service, got %s", cfg.JWT.Issuer)
	}
	if cfg.ServiceRequestTimeout() != 5*time.Second {
		t.Errorf("expected default timeout 5s, got %s", cfg.ServiceRequestTimeout())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	path := writeConfigFile(t, `
server:
  port: "4000"
  mode: production
services:
  enrollment_service_url: http://enrollment:3002
  request_timeout: 2s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != "4000" {
		t.Errorf("expected port 4000, got %s", cfg.Server.Port)
	}
	if cfg.Server.Mode != "production" {
		t.Errorf("expected mode production, got %s", cfg.Server.Mode)
	}
	if cfg.Services.EnrollmentServiceURL != "http://enrollment:3002" {
		t.Errorf("expected enrollment URL from file, got %s", cfg.Services.EnrollmentServiceURL)
	}
	if cfg.ServiceRequestTimeout() != 2*time.Second {
		t.Errorf("expected timeout 2s, got %s", cfg.ServiceRequestTimeout())
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "5000")
	t.Setenv("ENROLLMENT_SERVICE_URL", "http://enrollment-live:3002")

	path := writeConfigFile(t, `
server:
  port: "4000"
services:
  enrollment_service_url: http://enrollment-file:3002
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Port != "5000" {
		t.Errorf("expected env port 5000 to win, got %s", cfg.Server.Port)
	}
	if cfg.Services.EnrollmentServiceURL != "http://enrollment-live:3002" {
		t.Errorf("expected env enrollment URL to win, got %s", cfg.Services.EnrollmentServiceURL)
	}
}

func TestLoadConfig_JWTSecretOptionalWithAuthService(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("AUTH_SERVICE_URL", "http://auth:3001")
	t.Setenv("ENROLLMENT_SERVICE_URL", "http://enrollment:3002")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Services.AuthServiceURL != "http://auth:3001" {
		t.Errorf("expected auth service URL, got %s", cfg.Services.AuthServiceURL)
	}
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing JWT secret without auth service",
			env:     map[string]string{"ENROLLMENT_SERVICE_URL": "http://enrollment:3002"},
			wantErr: "JWT secret is required",
		},
		{
			name:    "missing enrollment service URL",
			env:     map[string]string{"JWT_SECRET": "secret"},
			wantErr: "enrollment service URL is required",
		},
		{
			name: "malformed request timeout",
			env: map[string]string{
				"JWT_SECRET":               "secret",
				"ENROLLMENT_SERVICE_URL":   "http://enrollment:3002",
				"SERVICES_REQUEST_TIMEOUT": "soon",
			},
			wantErr: "invalid service request timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.Password = "pw"

	want := "postgres://postgres:pw@localhost:5432/courses?sslmode=disable"
	if got := cfg.GetPostgresConnectionString(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
