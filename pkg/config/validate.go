package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// minSecretLength matches the HMAC key requirement of the session tokens.
const minSecretLength = 32

// Validate checks the configuration for required fields and valid values.
// All failures are reported together, each with its field path.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	if u, err := url.Parse(c.Engine.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("engine.base_url must be an absolute http(s) URL, got %q", c.Engine.BaseURL))
	}
	if c.Engine.Model == "" {
		errs = append(errs, fmt.Errorf("engine.model is required"))
	}
	if c.Engine.HistoryWindow <= 0 {
		errs = append(errs, fmt.Errorf("engine.history_window must be > 0, got %d", c.Engine.HistoryWindow))
	}
	if c.Engine.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("engine.request_timeout must be > 0, got %v", c.Engine.RequestTimeout))
	}
	if c.Engine.MaxMessageSize <= 0 {
		errs = append(errs, fmt.Errorf("engine.max_message_size must be > 0, got %d", c.Engine.MaxMessageSize))
	}

	if c.Sessions.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("sessions.max_sessions must be >= 0, got %d", c.Sessions.MaxSessions))
	}
	if c.Sessions.IdleTTL < 0 {
		errs = append(errs, fmt.Errorf("sessions.idle_ttl must be >= 0, got %v", c.Sessions.IdleTTL))
	}
	if c.Sessions.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("sessions.token_ttl must be > 0, got %v", c.Sessions.TokenTTL))
	}
	if c.Sessions.RateLimitRPM < 0 {
		errs = append(errs, fmt.Errorf("sessions.rate_limit_rpm must be >= 0, got %d", c.Sessions.RateLimitRPM))
	}
	if c.Sessions.Secret != "" && len(c.Sessions.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("sessions.secret must be at least %d bytes", minSecretLength))
	}

	if c.MCP.Enabled && !strings.HasPrefix(c.MCP.Path, "/") {
		errs = append(errs, fmt.Errorf("mcp.path must start with \"/\", got %q", c.MCP.Path))
	}
	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	switch strings.ToUpper(c.Logging.Level) {
	case "", "TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		// valid
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of TRACE, DEBUG, INFO, WARN, ERROR, got %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
