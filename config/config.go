// Package config loads startup configuration from environment variables.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the relay's startup parameters.
type Config struct {
	// Port is the HTTP/WebSocket listen port.
	Port int `env:"PORT" envDefault:"3001"`
	// CORSOrigin is the allowed cross-origin client address.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`
	// OutboundQueueSize bounds each connection's outbound queue. A client
	// whose queue saturates is dropped.
	OutboundQueueSize int `env:"OUTBOUND_QUEUE_SIZE" envDefault:"64"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.OutboundQueueSize <= 0 {
		return Config{}, fmt.Errorf("outbound queue size must be positive, got %d", cfg.OutboundQueueSize)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
