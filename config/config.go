package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort     = 3001
	DefaultStoreURI = "sqlite://tasks.db"
)

type Config struct {
	Port        int      `yaml:"port"`
	StoreURI    string   `yaml:"store_uri"`
	LogLevel    string   `yaml:"log_level"`
	LogFormat   string   `yaml:"log_format"`
	CORSOrigins []string `yaml:"cors_origins"`
}

func Default() Config {
	return Config{
		Port:        DefaultPort,
		StoreURI:    DefaultStoreURI,
		LogLevel:    "info",
		LogFormat:   "json",
		CORSOrigins: []string{"*"},
	}
}

// Load builds the configuration from defaults, an optional YAML file at
// path, and the environment, in that order of precedence (lowest first).
// A .env file in the working directory is loaded into the environment
// first; variables already set are not overridden.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	// MONGO_URI is accepted for older .env files.
	if v := os.Getenv("STORE_URI"); v != "" {
		cfg.StoreURI = v
	} else if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.StoreURI = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
	return nil
}

// Addr is the listen address for the API server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// SlogLevel parses LogLevel, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
