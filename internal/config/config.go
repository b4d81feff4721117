// Package config loads all engine settings from environment variables, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server ServerConfig
	Game   GameConfig
	Save   SaveConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	AdminKey        string        `envconfig:"ADMIN_KEY" default:""` // empty disables admin routes
}

// GameConfig holds simulation settings.
type GameConfig struct {
	CatalogPath string        `envconfig:"CATALOG_PATH" default:""` // empty uses the built-in catalog
	Seed        int64         `envconfig:"GAME_SEED" default:"0"`   // 0 derives a seed from the clock
	Capacity    int           `envconfig:"SHOP_CAPACITY" default:"50"`
	DayInterval time.Duration `envconfig:"DAY_INTERVAL" default:"1m"`
	AutoAdvance bool          `envconfig:"DAY_AUTO_ADVANCE" default:"true"`

	WeightStudent    int `envconfig:"WEIGHT_STUDENT" default:"30"`
	WeightCommuter   int `envconfig:"WEIGHT_COMMUTER" default:"30"`
	WeightEnthusiast int `envconfig:"WEIGHT_ENTHUSIAST" default:"30"`
	WeightRacer      int `envconfig:"WEIGHT_RACER" default:"5"`
	WeightInfluencer int `envconfig:"WEIGHT_INFLUENCER" default:"5"`
}

// SaveConfig holds persistence settings.
type SaveConfig struct {
	Path string `envconfig:"SAVE_PATH" default:"./data/shopsim.db"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
