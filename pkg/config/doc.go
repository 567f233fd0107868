// Package config loads typed configuration structs from environment
// variables. It wraps github.com/joho/godotenv and
// github.com/caarlos0/env/v11: a .env file is loaded once per process,
// then each struct type is parsed once and cached, so repeated Load
// calls for the same type are cheap and return identical values.
//
// Usage:
//
//	type RedisConfig struct {
//	    URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil { ... }
package config
