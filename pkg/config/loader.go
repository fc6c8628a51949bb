package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, HEALTHCHAT_CONFIG env, ./config.yaml, /etc/healthchat/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. HEALTHCHAT_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/healthchat/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("HEALTHCHAT_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/healthchat/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
// Unknown keys are rejected so typos surface at startup.
func loadYAMLFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// envOverride binds one environment variable to a config field.
type envOverride struct {
	name  string
	apply func(v string) error
}

// applyEnvOverrides maps HEALTHCHAT_* environment variables to config
// fields. GEMINI_API_KEY is honored when HEALTHCHAT_API_KEY is unset.
func applyEnvOverrides(cfg *Config) error {
	overrides := []envOverride{
		{"HEALTHCHAT_PORT", intVar(&cfg.Server.Port)},
		{"HEALTHCHAT_BASE_URL", stringVar(&cfg.Engine.BaseURL)},
		{"HEALTHCHAT_MODEL", stringVar(&cfg.Engine.Model)},
		{"GEMINI_API_KEY", stringVar(&cfg.Engine.APIKey)},
		{"HEALTHCHAT_API_KEY", stringVar(&cfg.Engine.APIKey)},
		{"HEALTHCHAT_API_KEY_FILE", stringVar(&cfg.Engine.APIKeyFile)},
		{"HEALTHCHAT_HISTORY_WINDOW", intVar(&cfg.Engine.HistoryWindow)},
		{"HEALTHCHAT_REQUEST_TIMEOUT", durationVar(&cfg.Engine.RequestTimeout)},
		{"HEALTHCHAT_MAX_SESSIONS", intVar(&cfg.Sessions.MaxSessions)},
		{"HEALTHCHAT_SESSION_IDLE_TTL", durationVar(&cfg.Sessions.IdleTTL)},
		{"HEALTHCHAT_SESSION_SECRET", stringVar(&cfg.Sessions.Secret)},
		{"HEALTHCHAT_SESSION_SECRET_FILE", stringVar(&cfg.Sessions.SecretFile)},
		{"HEALTHCHAT_RATE_LIMIT_RPM", intVar(&cfg.Sessions.RateLimitRPM)},
		{"HEALTHCHAT_MCP_ENABLED", boolVar(&cfg.MCP.Enabled)},
		{"HEALTHCHAT_LOG_LEVEL", stringVar(&cfg.Logging.Level)},
		{"HEALTHCHAT_DEBUG", stringVar(&cfg.Logging.Debug)},
	}

	for _, o := range overrides {
		v := os.Getenv(o.name)
		if v == "" {
			continue
		}
		if err := o.apply(v); err != nil {
			return fmt.Errorf("%s: %w", o.name, err)
		}
	}
	return nil
}

func stringVar(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func intVar(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func boolVar(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func durationVar(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// engine.api_key_file -> engine.api_key
	if cfg.Engine.APIKeyFile != "" && cfg.Engine.APIKey == "" {
		val, err := readSecretFile(cfg.Engine.APIKeyFile)
		if err != nil {
			return fmt.Errorf("engine.api_key_file: %w", err)
		}
		cfg.Engine.APIKey = val
	}

	// sessions.secret_file -> sessions.secret
	if cfg.Sessions.SecretFile != "" && cfg.Sessions.Secret == "" {
		val, err := readSecretFile(cfg.Sessions.SecretFile)
		if err != nil {
			return fmt.Errorf("sessions.secret_file: %w", err)
		}
		cfg.Sessions.Secret = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
