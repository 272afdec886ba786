package models

import "time"

// Config represents application configuration
type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	NATS         NATSConfig
	JWT          JWTConfig
	Logger       LoggerConfig
	CoinPayments CoinPaymentsConfig
	Gateway      GatewayConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// CoinPaymentsConfig contains the payment processor API credentials
type CoinPaymentsConfig struct {
	APIURL     string
	PublicKey  string
	PrivateKey string
	MerchantID string
	Timeout    time.Duration
}

// GatewayConfig contains lifecycle engine tuning
type GatewayConfig struct {
	// PayoutCurrency is the token every completed deposit is converted into
	PayoutCurrency      string
	ConversionTimeout   time.Duration
	MaxApplyAttempts    int
	LockBackend         string // "memory" or "redis"
	LockTTL             time.Duration
	RatesTTL            time.Duration
	SupportedCurrencies []string
	EventSubject        string
	OwnerRateLimit      int // buyer requests per owner per minute
}
