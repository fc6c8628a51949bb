// Package jwt issues and validates the HS256 session tokens handed out
// when a chat session is created.
//
// The token subject is the session id. Tokens carry an issuer and an
// expiry; both are enforced on every request.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rhuss/healthchat/pkg/auth"
	"github.com/rhuss/healthchat/pkg/debug"
)

// DefaultIssuer is the iss claim used when Config.Issuer is empty.
const DefaultIssuer = "healthchat"

// MinSecretLength is the minimum HMAC secret length in bytes.
const MinSecretLength = 32

// Config holds the session token configuration.
type Config struct {
	// Secret is the HMAC key. It must be at least MinSecretLength bytes.
	Secret []byte

	// Issuer is the iss claim written and required. Default: "healthchat".
	Issuer string

	// TTL is the token lifetime. Default: 24 hours.
	TTL time.Duration

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.TTL == 0 {
		c.TTL = 24 * time.Hour
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Authenticator issues session tokens and validates them on requests.
type Authenticator struct {
	config Config
}

var _ auth.Authenticator = (*Authenticator)(nil)

// New creates a session token authenticator.
func New(cfg Config) (*Authenticator, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("session token secret must be at least %d bytes", MinSecretLength)
	}
	cfg.applyDefaults()
	return &Authenticator{config: cfg}, nil
}

// Issue signs a token for the given session id.
func (a *Authenticator) Issue(sessionID string) (string, time.Time, error) {
	if sessionID == "" {
		return "", time.Time{}, errors.New("session id must not be empty")
	}

	now := a.config.Now()
	expiresAt := now.Add(a.config.TTL).Truncate(time.Second)
	claims := jwtlib.RegisteredClaims{
		Issuer:    a.config.Issuer,
		Subject:   sessionID,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(expiresAt),
	}

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(a.config.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return token, expiresAt, nil
}

// Authenticate validates the bearer token on r.
//
// Decision outcomes:
//   - Abstain: no Authorization header or not a Bearer scheme
//   - No: bearer token present but invalid (expired, wrong issuer, bad signature, etc.)
//   - Yes: valid token; the identity subject is the session id
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.AuthResult {
	tokenStr, ok := auth.BearerToken(r)
	if !ok {
		return auth.AuthResult{Decision: auth.Abstain}
	}
	if tokenStr == "" {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      errors.New("empty bearer token"),
		}
	}

	claims := &jwtlib.RegisteredClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(*jwtlib.Token) (interface{}, error) {
		return a.config.Secret, nil
	}, a.parserOptions()...)
	if err != nil {
		debug.Log(debug.Auth, "session token rejected", "error", err)
		return auth.AuthResult{
			Decision: auth.No,
			Err:      fmt.Errorf("invalid session token: %w", err),
		}
	}
	if !token.Valid || claims.Subject == "" {
		return auth.AuthResult{
			Decision: auth.No,
			Err:      errors.New("session token missing subject"),
		}
	}

	identity := &auth.Identity{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}

	return auth.AuthResult{
		Decision: auth.Yes,
		Identity: identity,
	}
}

// parserOptions builds JWT parser options based on the configuration.
func (a *Authenticator) parserOptions() []jwtlib.ParserOption {
	return []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(a.config.Issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(a.config.Now),
	}
}
