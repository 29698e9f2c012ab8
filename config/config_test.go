package config

import (
	"strings"
	"testing"
)

// clearEnv blanks every variable Load reads so the ambient environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ADDRESS", "ENV", "LOG_LEVEL", "LOG_DIR", "LOG_RETENTION_WEEKS",
		"STORAGE_BACKEND", "BADGER_DIR", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"MAX_REQUEST_BODY", "MAX_HEADER_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %s, want 8000", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Address = %s, want 127.0.0.1", cfg.Address)
	}
	if cfg.Env != "dev" {
		t.Errorf("Env = %s, want dev", cfg.Env)
	}
	if cfg.StorageBackend != BackendBadger {
		t.Errorf("StorageBackend = %s, want badger", cfg.StorageBackend)
	}
	if cfg.LogRetentionWeeks != 4 {
		t.Errorf("LogRetentionWeeks = %d, want 4", cfg.LogRetentionWeeks)
	}
	if cfg.MaxRequestBody != 1048576 {
		t.Errorf("MaxRequestBody = %d, want 1048576", cfg.MaxRequestBody)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "10.0.0.5:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug (lowercased)", cfg.LogLevel)
	}
	if cfg.StorageBackend != BackendRedis {
		t.Errorf("StorageBackend = %s, want redis (lowercased)", cfg.StorageBackend)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		value   string
		errPart string
	}{
		{"non-numeric port", "PORT", "http", "PORT"},
		{"privileged port", "PORT", "80", "privileged"},
		{"port out of range", "PORT", "70000", "between"},
		{"public address", "ADDRESS", "8.8.8.8", "public"},
		{"garbage address", "ADDRESS", "not-an-ip", "valid IP"},
		{"unknown env", "ENV", "production!", "ENV"},
		{"unknown log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"unknown backend", "STORAGE_BACKEND", "postgres", "STORAGE_BACKEND"},
		{"retention too long", "LOG_RETENTION_WEEKS", "53", "LOG_RETENTION_WEEKS"},
		{"retention too short", "LOG_RETENTION_WEEKS", "0", "LOG_RETENTION_WEEKS"},
		{"oversized body limit", "MAX_REQUEST_BODY", "209715200", "MAX_REQUEST_BODY"},
		{"negative header limit", "MAX_HEADER_SIZE", "-1", "MAX_HEADER_SIZE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load with %s=%s succeeded, want error", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("error %q does not mention %q", err, tc.errPart)
			}
		})
	}
}

func TestValidateAddressAcceptsPrivateRanges(t *testing.T) {
	for _, addr := range []string{"127.0.0.1", "localhost", "::1", "192.168.1.10", "10.1.2.3"} {
		if err := validateAddress(addr); err != nil {
			t.Errorf("validateAddress(%s) = %v, want nil", addr, err)
		}
	}
}
