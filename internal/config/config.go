package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token" env:"BOT_TOKEN"`
	Name     string  `yaml:"name"`
	Workers  int     `yaml:"workers"` // update fan-out workers
	OwnerIDs []int64 `yaml:"owner_ids"`
	// Channel receives operational notifications (completed orders, OTPs).
	Channel string `yaml:"channel"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" env:"REDIS_URL"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type PaymentConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key" env:"PAYMENT_API_KEY"`
}

type PanelConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key" env:"PANEL_API_KEY"`
	// Domain is shown to buyers as the panel login address.
	Domain     string `yaml:"domain"`
	EggID      int64  `yaml:"egg_id"`
	LocationID int64  `yaml:"location_id"`
	NestID     int64  `yaml:"nest_id"`
}

type RentalConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key" env:"RENTAL_API_KEY"`
	Country  string `yaml:"country"`
	Operator string `yaml:"operator"`
}

// LinksConfig holds the static invite links delivered for the
// reseller and userbot goods.
type LinksConfig struct {
	Reseller string `yaml:"reseller"`
	Userbot  string `yaml:"userbot"`
}

type WebConfig struct {
	Port          int           `yaml:"port"`
	AdminSecret   string        `yaml:"admin_secret" env:"ADMIN_SECRET"`
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Payment  PaymentConfig  `yaml:"payment"`
	Panel    PanelConfig    `yaml:"panel"`
	Rental   RentalConfig   `yaml:"rental"`
	Links    LinksConfig    `yaml:"links"`
	Web      WebConfig      `yaml:"web"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, overlays environment variables on top of
// it (secrets usually come from the environment in deployments), applies
// defaults and validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Bot.Name == "" {
		cfg.Bot.Name = "Panel Store"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Rental.Country == "" {
		cfg.Rental.Country = "indonesia"
	}
	if cfg.Rental.Operator == "" {
		cfg.Rental.Operator = "any"
	}
	if cfg.Web.Port <= 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Web.SessionTTL <= 0 {
		cfg.Web.SessionTTL = 30 * time.Minute
	}

	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Payment.BaseURL == "" || cfg.Payment.APIKey == "" {
		return nil, errors.New("payment.base_url and payment.api_key are required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
