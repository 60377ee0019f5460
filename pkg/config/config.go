// Package config defines the YAML configuration for the chat client: the
// endpoint to talk to, how its responses are decoded, and the ambient
// knobs (rate limiting, logging).
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cecil-the-coder/chat-stream-kit/pkg/streaming"
)

// EndpointConfig describes the chat endpoint requests are composed for.
type EndpointConfig struct {
	// URL is the chat completion endpoint. Sending is a no-op while it
	// is unset.
	URL string `yaml:"url" validate:"omitempty,url"`

	// Method is the HTTP method for chat requests.
	Method string `yaml:"method" validate:"oneof=GET POST PUT PATCH"`

	// Headers are extra request headers (e.g. API version pins).
	Headers map[string]string `yaml:"headers,omitempty"`

	// BearerToken is attached as an Authorization bearer credential when
	// set. The token itself is never validated client-side.
	BearerToken string `yaml:"bearerToken,omitempty"`

	// TimeoutSeconds bounds a non-streaming exchange. Zero means no
	// client-side bound; streaming requests always run unbounded.
	TimeoutSeconds int `yaml:"timeoutSeconds" validate:"gte=0"`
}

// RateLimitConfig paces outgoing requests client-side.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute" validate:"omitempty,gte=1"`
}

// Config is the root configuration.
type Config struct {
	Endpoint EndpointConfig `yaml:"endpoint"`

	// Stream selects the decode strategy preference: none, sse, or auto.
	Stream streaming.StreamMode `yaml:"stream" validate:"oneof=none sse auto"`

	// ResponseKey is the top-level field read from non-streaming JSON
	// responses.
	ResponseKey string `yaml:"responseKey"`

	RateLimit RateLimitConfig `yaml:"rateLimit"`

	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"logLevel" validate:"omitempty,oneof=trace debug info warn error"`
}

var validate = validator.New()

// Default returns a Config with all defaults applied and no endpoint.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config against its declared constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Endpoint.Method == "" {
		c.Endpoint.Method = "POST"
	}
	if c.Stream == "" {
		c.Stream = streaming.StreamModeAuto
	}
	if c.ResponseKey == "" {
		c.ResponseKey = streaming.DefaultReplyKey
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
