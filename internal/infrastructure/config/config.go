package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	Email EmailConfig
}

type JWTConfig struct {
	Secret                         string `env:"JWT_SECRET"`
	AccessExpirationMinutes        int    `env:"JWT_ACCESS_EXPIRATION_MINUTES,         default=30"`
	RefreshExpirationDays          int    `env:"JWT_REFRESH_EXPIRATION_DAYS,           default=30"`
	ResetPasswordExpirationMinutes int    `env:"JWT_RESET_PASSWORD_EXPIRATION_MINUTES, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=sims"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type EmailConfig struct {
	APIURL    string `env:"EMAIL_API_URL, default=https://api.brevo.com/v3/smtp/email"`
	APIKey    string `env:"EMAIL_API_KEY"`
	FromName  string `env:"EMAIL_FROM_NAME,  default=SIMS"`
	FromEmail string `env:"EMAIL_FROM,       default=noreply@sims.example.com"`
	ResetURL  string `env:"EMAIL_RESET_URL,  default=http://localhost:8080/reset-password"`
	Workers   int    `env:"EMAIL_WORKERS,    default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
