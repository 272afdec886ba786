package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg := InitConfig("does-not-exist.env")

	assert.Equal(t, "gateway-service", cfg.App.Name)
	assert.Equal(t, 9990, cfg.Server.Port)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "ETH", cfg.Gateway.PayoutCurrency)
	assert.Equal(t, 20*time.Second, cfg.Gateway.ConversionTimeout)
	assert.Equal(t, 3, cfg.Gateway.MaxApplyAttempts)
	assert.Equal(t, "memory", cfg.Gateway.LockBackend)
	assert.Equal(t, 5*time.Minute, cfg.Gateway.RatesTTL)
	assert.Equal(t, "gateway.transaction.updated", cfg.Gateway.EventSubject)
	assert.Empty(t, cfg.Gateway.SupportedCurrencies)
	assert.Equal(t, 30, cfg.Gateway.OwnerRateLimit)
}

func TestInitConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("GATEWAY_PAYOUT_CURRENCY", "ltct")
	t.Setenv("GATEWAY_CONVERSION_TIMEOUT", "3s")
	t.Setenv("GATEWAY_SUPPORTED_CURRENCIES", "eth, ltct,,BTC ")
	t.Setenv("COINPAYMENTS_PUBLIC_KEY", "pub")

	cfg := InitConfig("")

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "LTCT", cfg.Gateway.PayoutCurrency)
	assert.Equal(t, 3*time.Second, cfg.Gateway.ConversionTimeout)
	assert.Equal(t, []string{"ETH", "LTCT", "BTC"}, cfg.Gateway.SupportedCurrencies)
	assert.Equal(t, "pub", cfg.CoinPayments.PublicKey)
}

func TestInitConfig_LocalEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.env")
	require.NoError(t, os.WriteFile(path, []byte("GATEWAY_MAX_APPLY_ATTEMPTS=7\n"), 0o600))

	t.Setenv("APP_ENV", "local")
	t.Cleanup(func() { os.Unsetenv("GATEWAY_MAX_APPLY_ATTEMPTS") })

	cfg := InitConfig(path)

	assert.Equal(t, 7, cfg.Gateway.MaxApplyAttempts)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("COINGATE_TEST_KEY", "value")

	assert.Equal(t, "value", GetEnv("COINGATE_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("COINGATE_TEST_MISSING", "fallback"))
}
