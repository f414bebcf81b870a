// Package config loads service configuration from layered sources:
// built-in defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/denisok6893-rgb/property-recommender/internal/logging"
	"github.com/denisok6893-rgb/property-recommender/internal/matching"
	"github.com/denisok6893-rgb/property-recommender/internal/predictor"
	"github.com/denisok6893-rgb/property-recommender/internal/validation"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"configs/config.yaml",
}

const ConfigPathEnvVar = "CONFIG_PATH"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   logging.Config  `koanf:"logging"`
	Storage   StorageConfig   `koanf:"storage"`
	Engine    matching.Config `koanf:"engine"`
	Predictor PredictorConfig `koanf:"predictor"`
	Currency  CurrencyConfig  `koanf:"currency"`
}

type ServerConfig struct {
	Address         string        `koanf:"address" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type StorageConfig struct {
	// Driver selects where candidates come from: a SQLite catalog or a
	// read-only JSON file.
	Driver     string `koanf:"driver" validate:"oneof=sqlite json"`
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	JSONPath   string `koanf:"json_path" validate:"required_if=Driver json"`

	// SeedPath, when set, fills an empty SQLite catalog on startup.
	SeedPath    string `koanf:"seed_path"`
	WeightsPath string `koanf:"weights_path"`
}

type PredictorConfig struct {
	// Mode is http for the remote model, heuristic for the built-in
	// estimator, none to skip reranking.
	Mode string                 `koanf:"mode" validate:"oneof=http heuristic none"`
	HTTP predictor.ClientConfig `koanf:"http"`
}

type CurrencyConfig struct {
	UFRate float64 `koanf:"uf_rate" validate:"gt=0"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: logging.Config{
			Level:     "info",
			Format:    "json",
			Timestamp: true,
		},
		Storage: StorageConfig{
			Driver:      "sqlite",
			SQLitePath:  "data/candidates.db",
			JSONPath:    "data/candidates.json",
			SeedPath:    "data/candidates.json",
			WeightsPath: "configs/weights.json",
		},
		Engine: matching.DefaultConfig(),
		Predictor: PredictorConfig{
			Mode: "heuristic",
			HTTP: predictor.DefaultClientConfig(),
		},
		Currency: CurrencyConfig{UFRate: 37500},
	}
}

// Load reads configuration with precedence env > file > defaults. An empty
// path means look up CONFIG_PATH and then DefaultConfigPaths.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if c.Predictor.Mode == "http" && strings.TrimSpace(c.Predictor.HTTP.URL) == "" {
		return &validation.ValidationError{
			Field:   "predictor.http.url",
			Tag:     "required",
			Message: "predictor.http.url is required when predictor.mode is http",
		}
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"recommender_address":          "server.address",
	"recommender_read_timeout":     "server.read_timeout",
	"recommender_write_timeout":    "server.write_timeout",
	"recommender_shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"recommender_storage_driver": "storage.driver",
	"recommender_sqlite_path":    "storage.sqlite_path",
	"recommender_json_path":      "storage.json_path",
	"recommender_seed_path":      "storage.seed_path",
	"recommender_weights_path":   "storage.weights_path",

	"recommender_hard_importance":   "engine.hard_importance",
	"recommender_rerank_weight":     "engine.rerank_weight",
	"recommender_rerank_factor":     "engine.rerank_factor",
	"recommender_default_limit":     "engine.default_limit",
	"recommender_max_limit":         "engine.max_limit",
	"recommender_concurrency":       "engine.concurrency",
	"recommender_predictor_timeout": "engine.predictor_timeout",
	"recommender_narrow_price_band": "engine.narrow_price_band",

	"recommender_predictor_mode":    "predictor.mode",
	"recommender_predictor_url":     "predictor.http.url",
	"recommender_predictor_breaker": "predictor.http.breaker_name",

	"recommender_uf_rate": "currency.uf_rate",
}

// envTransformFunc maps known environment variables to config paths and
// drops everything else.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
