package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TRANSLATION_PROVIDER", "")
	t.Setenv("LANGUAGE_CACHE_TTL", "")
	t.Setenv("EMAIL_RETRY_DELAY", "")
	t.Setenv("EMAIL_MAX_ATTEMPTS", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TranslationProvider != "libretranslate" {
		t.Fatalf("expected default provider libretranslate, got %q", cfg.TranslationProvider)
	}
	if cfg.LanguageCacheTTL != 10*time.Minute {
		t.Fatalf("unexpected cache ttl: %v", cfg.LanguageCacheTTL)
	}
	if cfg.EmailRetryDelay != 30*time.Second || cfg.EmailMaxAttempts != 5 {
		t.Fatalf("unexpected email retry defaults: %v %d", cfg.EmailRetryDelay, cfg.EmailMaxAttempts)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("TRANSLATION_TIMEOUT", "soon")

	cfg := Load()
	if cfg.DBMaxConns != 10 {
		t.Fatalf("expected fallback max conns 10, got %d", cfg.DBMaxConns)
	}
	if cfg.CookieSecure {
		t.Fatalf("expected fallback cookie secure false")
	}
	if cfg.TranslationTimeout != 60*time.Second {
		t.Fatalf("expected fallback timeout 60s, got %v", cfg.TranslationTimeout)
	}
}

func TestPostgresDSNAndLists(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "lahjatuna", DBSSLMode: "disable",
		CORSAllowedOrigins: " http://a.test, ,http://b.test ",
		ElasticsearchAddrs: "http://es:9200",
	}
	if got := cfg.PostgresDSN(); got != "postgres://u:p@db:5432/lahjatuna?sslmode=disable" {
		t.Fatalf("unexpected dsn: %s", got)
	}
	origins := cfg.CORSOrigins()
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", origins)
	}
	if addrs := cfg.ESAddrs(); len(addrs) != 1 {
		t.Fatalf("unexpected es addrs: %v", addrs)
	}
}
