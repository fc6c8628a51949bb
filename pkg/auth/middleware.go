package auth

import (
	"log/slog"
	"net/http"

	"github.com/rhuss/healthchat/pkg/api"
	"github.com/rhuss/healthchat/pkg/debug"
	"github.com/rhuss/healthchat/pkg/observability"
	"github.com/rhuss/healthchat/pkg/transport"
)

// Middleware creates HTTP middleware from an AuthChain and optional
// RateLimiter. Requests matching the bypass list skip both.
//
// Bypass entries are either a path ("/healthz"), which matches any
// method, or "METHOD /path", which matches that method only.
func Middleware(chain *AuthChain, limiter RateLimiter, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] || bypass[r.Method+" "+r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			result := chain.Authenticate(r.Context(), r)

			if result.Decision != Yes || result.Identity == nil {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", result.Err,
				)
				writeError(w, api.NewUnauthorizedError("a valid session token is required"))
				return
			}

			if result.Identity.Subject == "" {
				slog.Error("authenticator returned identity with empty subject")
				writeError(w, api.NewServerError("internal authentication error"))
				return
			}

			debug.Log(debug.Auth, "authentication succeeded",
				"subject", result.Identity.Subject,
				"path", r.URL.Path,
			)

			if limiter != nil {
				if err := limiter.Allow(r.Context(), result.Identity); err != nil {
					slog.Warn("rate limit exceeded", "subject", result.Identity.Subject)
					observability.RateLimitRejectedTotal.Inc()
					writeError(w, api.NewTooManyRequestsError("rate limit exceeded"))
					return
				}
			}

			ctx := SetIdentity(r.Context(), result.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DefaultBypassEndpoints lists endpoints that skip authentication: the
// probes, the static page and info, and session creation.
var DefaultBypassEndpoints = []string{
	"/healthz",
	"/metrics",
	"/",
	"/v1/info",
	"POST /v1/sessions",
}

func writeError(w http.ResponseWriter, apiErr *api.APIError) {
	switch apiErr.Type {
	case api.ErrorTypeUnauthorized:
		w.Header().Set("WWW-Authenticate", `Bearer realm="healthchat"`)
	case api.ErrorTypeTooManyRequests:
		w.Header().Set("Retry-After", "60")
	}
	transport.WriteAPIError(w, apiErr)
}
