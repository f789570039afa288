package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Presence  PresenceConfig
	RateLimit RateLimitConfig
	Archive   ArchiveConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	// OIDC issuer takes precedence; JWTSecret enables the HMAC verifier;
	// AllowInsecure parses tokens without signature checks (dev only).
	OIDCIssuer    string
	OIDCClientID  string
	JWTSecret     string
	AllowInsecure bool
}

type PresenceConfig struct {
	SweepEnabled  bool
	SweepInterval time.Duration
	SweepMaxIdle  time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// LoadConfig loads configuration from environment variables and a .env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5020")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MONGODB_DATABASE", "coedit")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("PRESENCE_SWEEP_ENABLED", false)
	viper.SetDefault("PRESENCE_SWEEP_INTERVAL", 600)
	viper.SetDefault("PRESENCE_SWEEP_MAX_IDLE", 3600)
	viper.SetDefault("RATE_LIMIT_RPS", 50.0)
	viper.SetDefault("RATE_LIMIT_BURST", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("ARCHIVE_BUCKET", "coedit")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			LogLevel:     viper.GetString("LOG_LEVEL"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		Auth: AuthConfig{
			OIDCIssuer:    viper.GetString("OIDC_ISSUER"),
			OIDCClientID:  viper.GetString("OIDC_CLIENT_ID"),
			JWTSecret:     viper.GetString("JWT_SECRET"),
			AllowInsecure: viper.GetBool("ALLOW_INSECURE_TOKEN"),
		},
		Presence: PresenceConfig{
			SweepEnabled:  viper.GetBool("PRESENCE_SWEEP_ENABLED"),
			SweepInterval: time.Duration(viper.GetInt("PRESENCE_SWEEP_INTERVAL")) * time.Second,
			SweepMaxIdle:  time.Duration(viper.GetInt("PRESENCE_SWEEP_MAX_IDLE")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Archive: ArchiveConfig{
			Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
			Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
			AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
			SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
			UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			Bucket:    viper.GetString("ARCHIVE_BUCKET"),
		},
	}

	return cfg, nil
}
