package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Payment  PaymentConfig
	Storage  StorageConfig
	Catalog  CatalogConfig
	Gate     GateConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PaymentConfig carries the external gateway contract parameters.
type PaymentConfig struct {
	GatewayURL      string
	IntegritySecret string
	MerchantID      string
	Currency        string
	CallbackURL     string
	RequestTimeout  time.Duration
}

// StorageConfig configures the object-store / video-CDN integration.
type StorageConfig struct {
	CDNBaseURL    string
	UploadBaseURL string
	AccessKey     string
	SigningSecret string
	PresignTTL    time.Duration
}

// CatalogConfig tunes public catalog caching.
type CatalogConfig struct {
	CacheTTL time.Duration
}

// GateConfig tunes the maintenance gate snapshot refresh.
type GateConfig struct {
	SnapshotTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Payment = PaymentConfig{
		GatewayURL:      v.GetString("PAYMENT_GATEWAY_URL"),
		IntegritySecret: v.GetString("PAYMENT_INTEGRITY_SECRET"),
		MerchantID:      v.GetString("PAYMENT_MERCHANT_ID"),
		Currency:        v.GetString("PAYMENT_CURRENCY"),
		CallbackURL:     v.GetString("PAYMENT_CALLBACK_URL"),
		RequestTimeout:  parseDuration(v.GetString("PAYMENT_REQUEST_TIMEOUT"), 10*time.Second),
	}

	cfg.Storage = StorageConfig{
		CDNBaseURL:    v.GetString("STORAGE_CDN_BASE_URL"),
		UploadBaseURL: v.GetString("STORAGE_UPLOAD_BASE_URL"),
		AccessKey:     v.GetString("STORAGE_ACCESS_KEY"),
		SigningSecret: v.GetString("STORAGE_SIGNING_SECRET"),
		PresignTTL:    parseDuration(v.GetString("STORAGE_PRESIGN_TTL"), 15*time.Minute),
	}

	cfg.Catalog = CatalogConfig{
		CacheTTL: parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Gate = GateConfig{
		SnapshotTTL: parseDuration(v.GetString("GATE_SNAPSHOT_TTL"), 15*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "aulamarket")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "aulamarket-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PAYMENT_GATEWAY_URL", "https://sandbox.checkout.example.com/api/session")
	v.SetDefault("PAYMENT_INTEGRITY_SECRET", "dev_integrity_secret")
	v.SetDefault("PAYMENT_MERCHANT_ID", "")
	v.SetDefault("PAYMENT_CURRENCY", "COP")
	v.SetDefault("PAYMENT_CALLBACK_URL", "http://localhost:8080/api/pagos/confirmar")
	v.SetDefault("PAYMENT_REQUEST_TIMEOUT", "10s")

	v.SetDefault("STORAGE_CDN_BASE_URL", "https://cdn.aulamarket.dev")
	v.SetDefault("STORAGE_UPLOAD_BASE_URL", "https://upload.aulamarket.dev")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SIGNING_SECRET", "dev_storage_secret")
	v.SetDefault("STORAGE_PRESIGN_TTL", "15m")

	v.SetDefault("CATALOG_CACHE_TTL", "5m")
	v.SetDefault("GATE_SNAPSHOT_TTL", "15s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
