package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "chatrelay"

// ServerConfig holds settings for the relay server runtime.
type ServerConfig struct {
	ListenAddr      string        `envconfig:"LISTEN_ADDR" default:":8000"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	MaxFrameBytes   int64         `envconfig:"MAX_FRAME_BYTES" default:"1048576"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

// ClientConfig holds settings for the terminal client.
type ClientConfig struct {
	ServerURL string `envconfig:"SERVER_URL" default:"ws://localhost:8000"`
	Room      string `envconfig:"ROOM" default:"lobby"`
}

// LoadServerConfig builds the server configuration from environment
// variables (prefix CHATRELAY_) with sensible defaults. A local .env
// file is honored when present.
func LoadServerConfig() (ServerConfig, error) {
	_ = godotenv.Load()

	var cfg ServerConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse server config: %w", err)
	}
	return cfg, nil
}

// LoadClientConfig builds the client configuration from environment variables.
func LoadClientConfig() (ClientConfig, error) {
	_ = godotenv.Load()

	var cfg ClientConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("parse client config: %w", err)
	}
	return cfg, nil
}
