package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mushtrack/internal/stats"
)

// Config represents the application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Stats struct {
		FYStartMonth int `yaml:"fy_start_month"` // zero-indexed, 6 = July
	} `yaml:"stats"`
	LogLevel string `yaml:"log_level"`
}

// loadConfig reads the yaml config file, fills defaults and applies
// MUSHTRACK_* environment overrides. A missing file is fine: everything
// has a usable default.
func loadConfig(path string) (*Config, error) {
	config := &Config{}
	config.Server.Port = 8080
	config.Database.Driver = "sqlite3"
	config.Database.DSN = "mushtrack.db"
	config.Metrics.Enabled = true
	config.Metrics.Port = 9090
	config.Metrics.Path = "/metrics"
	config.Stats.FYStartMonth = stats.DefaultFYStartMonth

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if v := os.Getenv("MUSHTRACK_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MUSHTRACK_PORT: %w", err)
		}
		config.Server.Port = p
	}
	if v := os.Getenv("MUSHTRACK_DB_DRIVER"); v != "" {
		config.Database.Driver = v
	}
	if v := os.Getenv("MUSHTRACK_DB_DSN"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("MUSHTRACK_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}

	return config, nil
}
