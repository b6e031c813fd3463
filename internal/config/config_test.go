package config

import (
	"strings"
	"testing"
)

func TestResolvePort(t *testing.T) {
	testCases := []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{name: "unset", env: map[string]string{}, expected: "3000"},
		{name: "empty", env: map[string]string{"PORT": ""}, expected: "3000"},
		{name: "custom", env: map[string]string{"PORT": "8080"}, expected: "8080"},
		{name: "forwarded as-is", env: map[string]string{"PORT": "0"}, expected: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolvePort(func(key string) string { return tc.env[key] })
			if got != tc.expected {
				t.Errorf("ResolvePort() = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestResolvePortFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "4567")
	if got := ResolvePort(nil); got != "4567" {
		t.Errorf("ResolvePort(nil) = %q, want 4567", got)
	}

	t.Setenv("PORT", "")
	if got := ResolvePort(nil); got != DefaultPort {
		t.Errorf("ResolvePort(nil) with empty PORT = %q, want %s", got, DefaultPort)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig().Web
	if cfg.Port != "3000" {
		t.Errorf("default port = %q, want 3000", cfg.Port)
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr() = %q, want :3000", cfg.Addr())
	}
	if cfg.LogFile != "server.log" || cfg.StaticDir != "public" || cfg.PartialsDir != "views/partials" {
		t.Errorf("unexpected default paths: %#v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*WebConfig)
		wantErr string
	}{
		{name: "fixed bad status", mutate: func(c *WebConfig) { c.BadRouteStatus = BadStatusFixed }},
		{name: "continue on log failure", mutate: func(c *WebConfig) { c.LogFailureMode = LogFailureContinue }},
		{name: "unknown bad status", mutate: func(c *WebConfig) { c.BadRouteStatus = "teapot" }, wantErr: "bad route status"},
		{name: "unknown log failure mode", mutate: func(c *WebConfig) { c.LogFailureMode = "retry" }, wantErr: "log failure mode"},
		{name: "empty port", mutate: func(c *WebConfig) { c.Port = "" }, wantErr: "port"},
		{name: "ssl without cert", mutate: func(c *WebConfig) { c.SSL = true }, wantErr: "cert_file"},
		{name: "ssl with cert", mutate: func(c *WebConfig) { c.SSL = true; c.CertFile = "a.pem"; c.KeyFile = "b.pem" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig().Web
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}
