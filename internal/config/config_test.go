package config

import (
	"os"
	"testing"
	"time"
)

// unsetenv borra las keys durante el test (envconfig trata "" distinto de "no seteado").
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetenv(t, "PORT", "DB_DSN", "ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_TOKEN_TTL",
		"REMINDER_CRON", "CORS_ALLOWED_ORIGINS", "BCRYPT_COST", "OTEL_SAMPLING_RATIO")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", c.Port)
	}
	if c.TokenTTL != 8*time.Hour {
		t.Fatalf("expected default token ttl 8h, got %s", c.TokenTTL)
	}
	if c.ReminderCron != "0 9 * * *" {
		t.Fatalf("unexpected reminder cron %q", c.ReminderCron)
	}
	if len(c.CORSAllowedOrigins) != 1 || c.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors default %#v", c.CORSAllowedOrigins)
	}
}

func TestLoad_RejectsHalfConfiguredAdmin(t *testing.T) {
	unsetenv(t, "ADMIN_PASSWORD", "ADMIN_TOKEN_TTL", "BCRYPT_COST", "OTEL_SAMPLING_RATIO")
	t.Setenv("ADMIN_USERNAME", "admin")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when only ADMIN_USERNAME is set")
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_TOKEN_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:8100,http://localhost:4200")
	unsetenv(t, "ADMIN_USERNAME", "ADMIN_PASSWORD", "BCRYPT_COST", "OTEL_SAMPLING_RATIO")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Port != "9090" || c.TokenTTL != 30*time.Minute {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if len(c.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %#v", c.CORSAllowedOrigins)
	}
}

func TestTwilioConfigured(t *testing.T) {
	c := Config{TwilioAccountSID: "AC1", TwilioAuthToken: "tok"}
	if c.TwilioConfigured() {
		t.Fatalf("expected false without from number")
	}
	c.TwilioFromNumber = "+56900000000"
	if !c.TwilioConfigured() {
		t.Fatalf("expected true when all fields set")
	}
}
