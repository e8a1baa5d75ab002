// Package config loads typed configuration from environment variables using
// github.com/caarlos0/env struct tags, with optional .env files read through
// github.com/joho/godotenv.
//
//	type Config struct {
//		Rules    string `env:"FORMCHECK_RULES" envDefault:"rules"`
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Parsed values are cached per type; call Reset in tests that change the
// environment between loads.
package config
