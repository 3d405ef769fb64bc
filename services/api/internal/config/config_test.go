package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		t.Fatalf("expected a default database url")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 default origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://skult.example,https://admin.skult.example")
	t.Setenv("SITE_URL", "https://skult.example")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://skult.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.SiteURL != "https://skult.example" {
		t.Fatalf("unexpected site url: %s", cfg.SiteURL)
	}
	if cfg.StripeSecretKey != "sk_test_123" {
		t.Fatalf("unexpected stripe key: %s", cfg.StripeSecretKey)
	}
}
