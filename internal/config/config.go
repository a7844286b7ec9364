// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. Environment variables, optionally seeded from a .env file
//  2. A YAML file named by CONFIG_PATH=/path/to/config.yaml
//     or --config=/path/to/config.yaml
//  3. The env-default values on the struct tags below
//
// Unlike most services the directory needs no configuration at all:
// without a file every value falls back to its default and the server
// starts on localhost:5000 with an in-memory store.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-default is only applied when neither the file nor the environment
// set the field, so defaults must be the zero-ish "normal" behaviour.
// That is why seeding is expressed as DisableSeed rather than Seed.
type Config struct {
	// Env controls log format and verbosity.
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	HTTPServer HTTPServer `yaml:"http_server"`

	Storage Storage `yaml:"storage"`

	// DisableSeed skips inserting the sample students at startup.
	DisableSeed bool `yaml:"disable_seed" env:"DISABLE_SEED"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:5000".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:5000" validate:"required"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s" validate:"gt=0"`

	// CORSOrigins lists the origins allowed to call the API from a browser.
	CORSOrigins []string `yaml:"cors_origins" env:"HTTP_CORS_ORIGINS" env-default:"*" env-separator:"," validate:"min=1"`
}

// Storage selects the directory backend.
type Storage struct {
	// Driver is "memory" (default) or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory" validate:"oneof=memory sqlite"`

	// Path is the SQLite DSN. ":memory:" keeps the database inside the
	// process, so state is still lost on restart.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:":memory:"`
}

// Load reads the config from path, or from the environment alone when
// path is empty, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
	} else {
		// Verify the file exists before trying to read it, so the
		// message is clearer than a later "open: no such file".
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure. If this
// function returns, the config is valid.
func MustLoad() *Config {
	// A missing .env file is normal; anything else (bad syntax) is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("cannot load .env: %s", err.Error())
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}
