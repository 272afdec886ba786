package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/piresc/coingate/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads configuration from the environment, reading configPath first when running locally
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return loadConfig(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "gateway-service")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", true)

	v.SetDefault("SERVER_PORT", 9990)
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30)

	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_IDLE_CONNS", 5)

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("JWT_EXPIRATION", 60)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("COINPAYMENTS_API_URL", "https://www.coinpayments.net/api.php")
	v.SetDefault("COINPAYMENTS_TIMEOUT", "15s")

	v.SetDefault("GATEWAY_PAYOUT_CURRENCY", "ETH")
	v.SetDefault("GATEWAY_CONVERSION_TIMEOUT", "20s")
	v.SetDefault("GATEWAY_MAX_APPLY_ATTEMPTS", 3)
	v.SetDefault("GATEWAY_LOCK_BACKEND", "memory")
	v.SetDefault("GATEWAY_LOCK_TTL", "60s")
	v.SetDefault("GATEWAY_RATES_TTL", "5m")
	v.SetDefault("GATEWAY_EVENT_SUBJECT", "gateway.transaction.updated")
	v.SetDefault("GATEWAY_OWNER_RATE_LIMIT", 30)
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")

	// Database config
	configs.Database.Driver = v.GetString("DB_DRIVER")
	configs.Database.Host = v.GetString("DB_HOST")
	configs.Database.Port = v.GetInt("DB_PORT")
	configs.Database.Username = v.GetString("DB_USERNAME")
	configs.Database.Password = v.GetString("DB_PASSWORD")
	configs.Database.Database = v.GetString("DB_DATABASE")
	configs.Database.SSLMode = v.GetString("DB_SSL_MODE")
	configs.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	configs.Database.IdleConns = v.GetInt("DB_IDLE_CONNS")

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// NATS config
	configs.NATS.URL = v.GetString("NATS_URL")

	// JWT config
	configs.JWT.Secret = v.GetString("JWT_SECRET")
	configs.JWT.Expiration = v.GetInt("JWT_EXPIRATION")
	configs.JWT.Issuer = v.GetString("JWT_ISSUER")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")

	// CoinPayments config
	configs.CoinPayments.APIURL = v.GetString("COINPAYMENTS_API_URL")
	configs.CoinPayments.PublicKey = v.GetString("COINPAYMENTS_PUBLIC_KEY")
	configs.CoinPayments.PrivateKey = v.GetString("COINPAYMENTS_PRIVATE_KEY")
	configs.CoinPayments.MerchantID = v.GetString("COINPAYMENTS_MERCHANT_ID")
	configs.CoinPayments.Timeout = v.GetDuration("COINPAYMENTS_TIMEOUT")

	// Gateway config
	configs.Gateway.PayoutCurrency = strings.ToUpper(v.GetString("GATEWAY_PAYOUT_CURRENCY"))
	configs.Gateway.ConversionTimeout = v.GetDuration("GATEWAY_CONVERSION_TIMEOUT")
	configs.Gateway.MaxApplyAttempts = v.GetInt("GATEWAY_MAX_APPLY_ATTEMPTS")
	configs.Gateway.LockBackend = v.GetString("GATEWAY_LOCK_BACKEND")
	configs.Gateway.LockTTL = v.GetDuration("GATEWAY_LOCK_TTL")
	configs.Gateway.RatesTTL = v.GetDuration("GATEWAY_RATES_TTL")
	configs.Gateway.SupportedCurrencies = splitList(v.GetString("GATEWAY_SUPPORTED_CURRENCIES"))
	configs.Gateway.EventSubject = v.GetString("GATEWAY_EVENT_SUBJECT")
	configs.Gateway.OwnerRateLimit = v.GetInt("GATEWAY_OWNER_RATE_LIMIT")

	return configs
}

// splitList turns "eth, ltct,BTC" into [ETH LTCT BTC]
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetEnv returns the value of key, or defaultValue when it is unset
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
