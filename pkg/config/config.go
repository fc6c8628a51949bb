// Package config provides unified configuration for the healthchat service.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (HEALTHCHAT_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the healthchat service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Engine        EngineConfig        `yaml:"engine"`
	Sessions      SessionsConfig      `yaml:"sessions"`
	MCP           MCPConfig           `yaml:"mcp"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 120s
	MaxBodySize  int64         `yaml:"max_body_size"` // default: 1MB
}

// EngineConfig holds orchestrator and provider settings.
type EngineConfig struct {
	BaseURL         string        `yaml:"base_url"`         // default: Gemini public endpoint
	APIVersion      string        `yaml:"api_version"`      // default: "v1beta"
	Model           string        `yaml:"model"`            // default: "gemini-1.5-flash"
	APIKey          string        `yaml:"api_key"`          // optional, preset into new sessions
	APIKeyFile      string        `yaml:"api_key_file"`     // _file variant for api_key
	HistoryWindow   int           `yaml:"history_window"`   // default: 10
	RequestTimeout  time.Duration `yaml:"request_timeout"`  // default: 60s
	MaxMessageSize  int           `yaml:"max_message_size"` // default: 32KB
	SuggestedModels []string      `yaml:"suggested_models"` // default: gemini-1.5-flash, gemini-1.0-pro
}

// SessionsConfig holds session registry and session token settings.
type SessionsConfig struct {
	MaxSessions   int           `yaml:"max_sessions"`   // default: 1000, 0 = unlimited
	IdleTTL       time.Duration `yaml:"idle_ttl"`       // default: 30m, 0 = never expire
	SweepInterval time.Duration `yaml:"sweep_interval"` // default: 1m
	Secret        string        `yaml:"secret"`         // token HMAC key, random when empty
	SecretFile    string        `yaml:"secret_file"`    // _file variant for secret
	TokenTTL      time.Duration `yaml:"token_ttl"`      // default: 24h
	RateLimitRPM  int           `yaml:"rate_limit_rpm"` // default: 30, 0 = unlimited
}

// MCPConfig holds settings for the MCP tool surface.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"` // mount streamable HTTP handler, default: false
	Path    string `yaml:"path"`    // default: "/mcp"
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig holds log level and debug category settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // TRACE, DEBUG, INFO, WARN, ERROR; default: INFO
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			MaxBodySize:  1 << 20,
		},
		Engine: EngineConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			APIVersion:     "v1beta",
			Model:          "gemini-1.5-flash",
			HistoryWindow:  10,
			RequestTimeout: 60 * time.Second,
			MaxMessageSize: 32 * 1024,
		},
		Sessions: SessionsConfig{
			MaxSessions:   1000,
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
			TokenTTL:      24 * time.Hour,
			RateLimitRPM:  30,
		},
		MCP: MCPConfig{
			Path: "/mcp",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}
