package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/junaid4290/my-auth-stripe-app/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":           "postgres://localhost:5432/storefront",
		"STRIPE_SECRET_KEY":      "sk_test_123",
		"STRIPE_PUBLISHABLE_KEY": "",
		"STRIPE_WEBHOOK_SECRET":  "",
		"APP_ENV":                "",
		"PORT":                   "",
		"REDIS_URL":              "",
		"PUBLIC_BASE_URL":        "",
		"CORS_ALLOWED_ORIGINS":   "",
		"CURRENCY_CODE":          "",
		"IDEMPOTENCY_TTL":        "",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
	require.Equal(t, "usd", cfg.CurrencyCode)
	require.Equal(t, 10*time.Minute, cfg.IdempotencyTTL)
	require.Empty(t, cfg.StripeWebhookSecret)
	require.Empty(t, cfg.RedisURL)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = ""
	_, err := config.LoadForTests(env)
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRequiresStripeSecretKey(t *testing.T) {
	env := baseEnv()
	env["STRIPE_SECRET_KEY"] = ""
	_, err := config.LoadForTests(env)
	require.ErrorContains(t, err, "STRIPE_SECRET_KEY")
}

func TestWebhookSecretIsOptional(t *testing.T) {
	cfg, err := config.LoadForTests(baseEnv())
	require.NoError(t, err)
	require.Empty(t, cfg.StripeWebhookSecret)
}

func TestPublicBaseURLTrimsTrailingSlash(t *testing.T) {
	env := baseEnv()
	env["PUBLIC_BASE_URL"] = "https://shop.example.com/"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, "https://shop.example.com", cfg.PublicBaseURL)
}

func TestCORSOriginsSplitAndTrimmed(t *testing.T) {
	env := baseEnv()
	env["CORS_ALLOWED_ORIGINS"] = " https://a.example.com , https://b.example.com ,"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
}

func TestCurrencyLowercased(t *testing.T) {
	env := baseEnv()
	env["CURRENCY_CODE"] = "EUR"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, "eur", cfg.CurrencyCode)
}

func TestIdempotencyTTLFallsBackOnGarbage(t *testing.T) {
	env := baseEnv()
	env["IDEMPOTENCY_TTL"] = "not-a-duration"
	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, 10*time.Minute, cfg.IdempotencyTTL)

	env["IDEMPOTENCY_TTL"] = "30s"
	cfg, err = config.LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, cfg.IdempotencyTTL)
}

func TestHTTPAddr(t *testing.T) {
	cfg := &config.Config{Port: "9090"}
	require.Equal(t, ":9090", cfg.HTTPAddr())

	cfg.Port = ":7070"
	require.Equal(t, ":7070", cfg.HTTPAddr())

	cfg.Port = ""
	require.Equal(t, ":8080", cfg.HTTPAddr())
}
