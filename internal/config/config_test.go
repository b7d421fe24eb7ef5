package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "SERVER_PORT")
	unsetEnvWithCleanup(t, "PORT")
	unsetEnvWithCleanup(t, "FRONTEND_URL")
	unsetEnvWithCleanup(t, "SUPPORT_EMAIL")
	unsetEnvWithCleanup(t, "NOTIFICATION_QUEUE")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default ServerPort 8080, got %q", cfg.ServerPort)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Fatalf("expected default FrontendURL, got %q", cfg.FrontendURL)
	}
	if cfg.SupportEmail != "support@migrent.com.au" {
		t.Fatalf("expected default SupportEmail, got %q", cfg.SupportEmail)
	}
	if cfg.NotificationQueue != "migrent.notifications" {
		t.Fatalf("expected default NotificationQueue, got %q", cfg.NotificationQueue)
	}
}

func TestLoadConfig_PortOverridesServerPort(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "SERVER_PORT", "8080")
	setEnvWithCleanup(t, "PORT", "9999")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9999" {
		t.Fatalf("expected PORT to win, got %q", cfg.ServerPort)
	}
}

func TestLoadConfig_TrimsTrailingSlashes(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "FRONTEND_URL", "https://app.migrent.com.au/")
	setEnvWithCleanup(t, "SUPABASE_URL", "https://example.supabase.co/")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.FrontendURL != "https://app.migrent.com.au" {
		t.Fatalf("expected trailing slash trimmed from FrontendURL, got %q", cfg.FrontendURL)
	}
	if cfg.SupabaseURL != "https://example.supabase.co" {
		t.Fatalf("expected trailing slash trimmed from SupabaseURL, got %q", cfg.SupabaseURL)
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	cfg := Config{
		DatabaseURL:     "postgres://localhost/migrent",
		SupabaseURL:     "https://example.supabase.co",
		SupabaseAnonKey: "anon",
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected Validate to fail")
	}
	for _, name := range []string{"SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_JWT_SECRET", "STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("expected error to mention %s, got %v", name, err)
		}
	}
	if strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("DATABASE_URL was set, should not be reported: %v", err)
	}
}

func TestValidate_PassesWithAllRequired(t *testing.T) {
	cfg := Config{
		DatabaseURL:            "postgres://localhost/migrent",
		SupabaseURL:            "https://example.supabase.co",
		SupabaseAnonKey:        "anon",
		SupabaseServiceRoleKey: "service",
		SupabaseJWTSecret:      "secret",
		StripeSecretKey:        "sk_test",
		StripeWebhookSecret:    "whsec",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to pass, got %v", err)
	}
}

func TestCheckoutURLs(t *testing.T) {
	cfg := Config{FrontendURL: "https://app.migrent.com.au"}

	if got := cfg.CheckoutSuccessURL(); got != "https://app.migrent.com.au/payment-success?session_id={CHECKOUT_SESSION_ID}" {
		t.Fatalf("unexpected success URL: %q", got)
	}
	if got := cfg.CheckoutCancelURL(); got != "https://app.migrent.com.au/payment-cancelled" {
		t.Fatalf("unexpected cancel URL: %q", got)
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
