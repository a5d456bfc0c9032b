package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}

	if !strings.HasPrefix(c.WSPath, "/") || c.WSPath == "/" {
		return fmt.Errorf("ws_path must start with / and name a path, got %q", c.WSPath)
	}
	// The router treats braces as path variables.
	if strings.ContainsAny(c.WSPath, "{}") {
		return fmt.Errorf("ws_path must not contain { or }, got %q", c.WSPath)
	}

	if c.MaxMessageSize < 0 {
		return fmt.Errorf("max_message_size must be >= 0, got %d", c.MaxMessageSize)
	}
	if c.PingInterval < 0 {
		return fmt.Errorf("ping_interval must be >= 0, got %s", c.PingInterval)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("write_timeout must be >= 0, got %s", c.WriteTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be > 0, got %s", c.ShutdownTimeout)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, warning, error, got %q", c.LogLevel)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}

	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("static_dir %q is not a directory", c.StaticDir)
		}
	}

	return nil
}
