package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries every runtime setting the service reads from the environment.
type Config struct {
	Addr        string `env:"ALIVE_ADDR" envDefault:":8080"`
	DatabaseDSN string `env:"ALIVE_PG_DSN"`

	JWTSecret string        `env:"ALIVE_JWT_SECRET"`
	TokenTTL  time.Duration `env:"ALIVE_TOKEN_TTL" envDefault:"8760h"`

	SMTPHost string `env:"ALIVE_SMTP_HOST"`
	SMTPPort int    `env:"ALIVE_SMTP_PORT" envDefault:"465"`
	SMTPUser string `env:"ALIVE_SMTP_USER"`
	SMTPPass string `env:"ALIVE_SMTP_PASS"`
	SMTPFrom string `env:"ALIVE_SMTP_FROM"`

	SMSAPIURL    string `env:"ALIVE_SMS_API_URL"`
	SMSAPIKey    string `env:"ALIVE_SMS_API_KEY"`
	SMSPartnerID string `env:"ALIVE_SMS_PARTNER_ID"`
	SMSShortcode string `env:"ALIVE_SMS_SHORTCODE"`

	RateBurst  int `env:"ALIVE_RATE_BURST" envDefault:"20"`
	RatePerSec int `env:"ALIVE_RATE_PER_SEC" envDefault:"10"`

	MigrationsDir string `env:"ALIVE_MIGRATIONS_DIR" envDefault:"migrations"`
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (Config, error) {
	// A missing .env file is fine; real deployments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
