// Package config provides configuration helpers that define runtime defaults,
// environment overrides, and validation for the wsecho service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultAddr            = "127.0.0.1:3000"
	DefaultStaticDir       = "./static"
	DefaultWSPath          = "/ws"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// Config holds the server configuration settings.
type Config struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
	WSPath    string `yaml:"ws_path"`

	// AllowedOrigins lists the browser origins accepted on the upgrade
	// endpoint. "*" accepts any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize caps a single inbound message in bytes. Zero means unlimited.
	MaxMessageSize    int64 `yaml:"max_message_size"`
	EnableCompression bool  `yaml:"enable_compression"`

	// PingInterval enables server keepalive pings when non-zero.
	PingInterval time.Duration `yaml:"ping_interval"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func defaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		StaticDir:       DefaultStaticDir,
		WSPath:          DefaultWSPath,
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: DefaultShutdownTimeout,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
	}
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// NewConfigFromEnv creates a Config instance from environment variables.
// Falls back to default values if environment variables are not set.
func NewConfigFromEnv() *Config {
	cfg := NewConfig()
	cfg.ApplyEnv()
	return cfg
}

// normalize trims and lowercases the enumerated string settings.
func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

func (c *Config) applyDefaults() {
	d := defaultConfig()
	c.normalize()

	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.WSPath == "" {
		c.WSPath = d.WSPath
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = d.AllowedOrigins
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
}

// ApplyEnv overrides fields with any environment variables that are set.
// Values that fail to parse leave the current setting in place.
func (c *Config) ApplyEnv() {
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		c.Addr = addr
	}

	if dir, ok := os.LookupEnv("STATIC_DIR"); ok {
		c.StaticDir = strings.TrimSpace(dir)
	}

	if path := os.Getenv("WS_PATH"); path != "" {
		c.WSPath = path
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = parseOrigins(origins)
	}

	if maxSize := os.Getenv("MAX_MESSAGE_SIZE"); maxSize != "" {
		c.MaxMessageSize = parseMaxMessageSize(maxSize, c.MaxMessageSize)
	}

	if compression := os.Getenv("ENABLE_COMPRESSION"); compression != "" {
		c.EnableCompression = parseBool(compression, c.EnableCompression)
	}

	if interval := os.Getenv("PING_INTERVAL"); interval != "" {
		c.PingInterval = parseDuration(interval, c.PingInterval)
	}

	if timeout := os.Getenv("WRITE_TIMEOUT"); timeout != "" {
		c.WriteTimeout = parseDuration(timeout, c.WriteTimeout)
	}

	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		c.ShutdownTimeout = parseDuration(timeout, c.ShutdownTimeout)
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(level))
	}

	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.LogFormat = strings.ToLower(strings.TrimSpace(format))
	}
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseMaxMessageSize(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size >= 0 {
		return size
	}
	return defaultValue
}

func parseBool(value string, defaultValue bool) bool {
	if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
		return parsed
	}
	return defaultValue
}

// parseDuration accepts Go duration strings ("30s", "1m") or a bare number of seconds.
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
