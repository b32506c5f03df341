// Package config loads the wrapd server configuration: an optional TOML
// file overridden by environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/setanarut/wrapstudio/editor"
	"github.com/setanarut/wrapstudio/internal/param"
)

type Config struct {
	Port         string  `toml:"port"`
	Environment  string  `toml:"env"`
	ReadTimeout  int     `toml:"read_timeout"`  // seconds
	WriteTimeout int     `toml:"write_timeout"` // seconds
	BodyLimitMB  int     `toml:"body_limit_mb"`
	LogLevel     string  `toml:"log_level"`
	CanvasBG     string  `toml:"canvas_bg"`
	HistorySize  int     `toml:"history_size"`
	ExportScale  float64 `toml:"export_scale"`
	// SessionIdle is how long an untouched editing session is kept, in
	// minutes. Zero keeps sessions until they are deleted.
	SessionIdle int `toml:"session_idle"`
}

func Default() *Config {
	return &Config{
		Port:         "3000",
		Environment:  "development",
		ReadTimeout:  10,
		WriteTimeout: 30,
		BodyLimitMB:  32,
		LogLevel:     "info",
		CanvasBG:     "#1a1a1a",
		HistorySize:  editor.DefaultHistorySize,
		ExportScale:  2,
		SessionIdle:  60,
	}
}

// Load reads path when it is non-empty, then applies environment
// overrides. Unparseable environment values keep the previous setting.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.BodyLimitMB = getEnvAsInt("BODY_LIMIT_MB", cfg.BodyLimitMB)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.CanvasBG = getEnv("CANVAS_BG", cfg.CanvasBG)
	cfg.HistorySize = getEnvAsInt("HISTORY_SIZE", cfg.HistorySize)
	cfg.ExportScale = getEnvAsFloat("EXPORT_SCALE", cfg.ExportScale)
	cfg.SessionIdle = getEnvAsInt("SESSION_IDLE", cfg.SessionIdle)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return param.Invalid("port is empty")
	}
	for name, v := range map[string]int{
		"read_timeout":  c.ReadTimeout,
		"write_timeout": c.WriteTimeout,
		"body_limit_mb": c.BodyLimitMB,
		"history_size":  c.HistorySize,
	} {
		if v <= 0 {
			return param.Invalid("%s must be positive, got %d", name, v)
		}
	}
	if c.SessionIdle < 0 {
		return param.Invalid("session_idle must not be negative, got %d", c.SessionIdle)
	}
	return param.InRange("export_scale", c.ExportScale, 0.1, editor.MaxExportScale)
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

func (c *Config) SessionIdleDuration() time.Duration {
	return time.Duration(c.SessionIdle) * time.Minute
}

// SlogLevel maps LogLevel to a slog level; unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EditorOptions returns the options every new editing session starts with.
func (c *Config) EditorOptions() editor.Options {
	opt := editor.DefaultOptions()
	opt.Mask.Background = c.CanvasBG
	opt.HistorySize = c.HistorySize
	opt.ExportScale = c.ExportScale
	return opt
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
