package pkg

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ServerConfig holds the listen addresses.
type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// SocketConfig holds websocket buffer sizes.
type SocketConfig struct {
	ReadBufferSize  int `mapstructure:"read_buffer_size"`
	WriteBufferSize int `mapstructure:"write_buffer_size"`
	// SendBuffer is the per-session outbound queue depth. Pushes to a full
	// queue are dropped, not blocked on.
	SendBuffer int `mapstructure:"send_buffer"`
}

// RoomConfig holds matchmaking settings.
type RoomConfig struct {
	// Capacity is the seat count per room.
	Capacity int `mapstructure:"capacity"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "text".
	Format string `mapstructure:"format"`
}

// Apply configures the global logger from the logging settings.
func (c LoggingConfig) Apply() error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", c.Level, err)
	}
	log.SetLevel(level)

	switch c.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}

	return nil
}

// Config is the top-level application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Socket  SocketConfig  `mapstructure:"socket"`
	Room    RoomConfig    `mapstructure:"room"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr must not be empty")
	}
	if c.Server.MetricsAddr == "" {
		errs = append(errs, "server.metrics_addr must not be empty")
	}
	if c.Socket.SendBuffer <= 0 {
		errs = append(errs, "socket.send_buffer must be positive")
	}
	if c.Room.Capacity < 2 {
		errs = append(errs, fmt.Sprintf("room.capacity must be at least 2, got %d", c.Room.Capacity))
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Sprintf("logging.level %q is not a valid level", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadConfig reads config.yaml from path (the working directory when empty),
// applies LANDLORD_* environment overrides, and falls back to defaults for
// anything unset. A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LANDLORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", ":8081")
	v.SetDefault("socket.read_buffer_size", 1024)
	v.SetDefault("socket.write_buffer_size", 1024)
	v.SetDefault("socket.send_buffer", 256)
	v.SetDefault("room.capacity", DefaultRoomCapacity)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
