// Package config содержит логику чтения конфигурации микросайта клуба.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"

	"github.com/mmeshcher/clubsite-analytics/internal/analytics"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultSeed       = 2025
	defaultDays       = 30
	defaultCacheTTL   = time.Hour
	defaultTimezone   = "UTC"
)

// Config содержит параметры конфигурации микросайта клуба.
type Config struct {
	RunAddress      string        `env:"RUN_ADDRESS"`
	DatabaseURI     string        `env:"DATABASE_URI"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	AdminKey        string        `env:"ADMIN_KEY"`
	Seed            int64         `env:"SIMULATION_SEED"`
	Days            int           `env:"SIMULATION_DAYS" envDefault:"30"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"10m"`
	Timezone        string        `env:"TIMEZONE" envDefault:"UTC"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envRedisAddr := cfg.RedisAddr
	envAdminKey := cfg.AdminKey
	envSeed := cfg.Seed
	rawSeed, ok := os.LookupEnv("SIMULATION_SEED")
	seedFromEnv := ok && rawSeed != ""

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address for the report cache")
	flag.StringVar(&cfg.AdminKey, "k", "", "admin API key")
	flag.Int64Var(&cfg.Seed, "s", defaultSeed, "analytics simulation seed")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envRedisAddr != "" {
		cfg.RedisAddr = envRedisAddr
	}
	if envAdminKey != "" {
		cfg.AdminKey = envAdminKey
	}
	if seedFromEnv {
		cfg.Seed = envSeed
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.Days <= 0 {
		cfg.Days = defaultDays
	}
	if cfg.Days > analytics.MaxDays {
		return nil, fmt.Errorf("SIMULATION_DAYS must be at most %d, got %d", analytics.MaxDays, cfg.Days)
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location возвращает часовой пояс клуба, в котором считается «сегодня».
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
