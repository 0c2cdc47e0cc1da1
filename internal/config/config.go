// Package config handles loading and parsing application configuration.
// Values are resolved once per process from, in increasing priority:
//  1. defaults declared on the struct tags (env-default:"...")
//  2. an optional YAML file:   CONFIG_PATH=/path/to/config.yaml or --config
//  3. the process environment, after an optional .env file has been loaded
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/aanand-mishra/edutrack/internal/validate"
)

// DefaultDotEnvPath is where MustLoad looks for a .env file.
const DefaultDotEnvPath = ".env"

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity, and whether rendered HTML is
	// minified. Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	// APIURL is the root address of the remote student-storage API.
	APIURL string `yaml:"api_url" env:"API_URL" env-default:"http://localhost:8081" validate:"required,url"`

	// RequestTimeout bounds one outbound submission.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"5s" validate:"gt=0"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings for the dashboard's own HTTP listener.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8501" validate:"required"`
}

// Load builds a Config. Both paths are optional: an empty configPath means
// environment only, and a dotEnvPath that does not exist is skipped.
// Variables already present in the environment win over the .env file.
func Load(configPath, dotEnvPath string) (*Config, error) {
	if dotEnvPath != "" {
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, fmt.Errorf("config.Load: dotenv %s: %w", dotEnvPath, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config.Load: stat %s: %w", dotEnvPath, err)
		}
	}

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config.Load: config file %s: %w", configPath, err)
		}
		// ReadConfig reads the YAML file, then applies env overrides
		// and env-default values.
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: read env: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to exit on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to an optional configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath, DefaultDotEnvPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}

	return cfg
}
