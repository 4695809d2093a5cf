package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GATEWAY_PORT", "")
	t.Setenv("LIBRARY_BASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("READER_UNRESTRICTED_ROLES", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg := NewConfig()

	if cfg.GetGatewayPort() != "8080" {
		t.Fatalf("expected default gateway port 8080, got %s", cfg.GetGatewayPort())
	}
	if cfg.GetServiceBaseURL() != "http://localhost:3000/api/v1" {
		t.Fatalf("expected default library url, got %s", cfg.GetServiceBaseURL())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetRequestTimeout() != 15*time.Second {
		t.Fatalf("expected default request timeout 15s, got %s", cfg.GetRequestTimeout())
	}

	roles := cfg.GetUnrestrictedRoles()
	if len(roles) != 2 || roles[0] != "admin" || roles[1] != "super" {
		t.Fatalf("expected default unrestricted roles admin,super, got %v", roles)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LIBRARY_BASE_URL", "https://library.example.com/api/v1")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("READER_UNRESTRICTED_ROLES", "librarian, curator")
	t.Setenv("ALLOWED_ORIGINS", "https://reader.example.com")

	cfg := NewConfig()

	if cfg.GetGatewayPort() != "9090" {
		t.Fatalf("expected gateway port 9090, got %s", cfg.GetGatewayPort())
	}
	if cfg.GetServiceBaseURL() != "https://library.example.com/api/v1" {
		t.Fatalf("expected library url override, got %s", cfg.GetServiceBaseURL())
	}
	if cfg.GetRequestTimeout() != 3*time.Second {
		t.Fatalf("expected request timeout 3s, got %s", cfg.GetRequestTimeout())
	}

	roles := cfg.GetUnrestrictedRoles()
	if len(roles) != 2 || roles[0] != "librarian" || roles[1] != "curator" {
		t.Fatalf("expected trimmed role list, got %v", roles)
	}

	origins := cfg.GetAllowedOrigins()
	if len(origins) != 1 || origins[0] != "https://reader.example.com" {
		t.Fatalf("expected origin override, got %v", origins)
	}
}

func TestNewConfig_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	cfg := NewConfig()
	if cfg.GetRequestTimeout() != 15*time.Second {
		t.Fatalf("expected fallback timeout, got %s", cfg.GetRequestTimeout())
	}
}
