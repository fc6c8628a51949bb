// Package auth guards session-scoped routes of the healthchat API.
//
// Callers present the bearer token issued when their session was
// created. Authenticators vote Yes (identity found), No (credentials
// invalid) or Abstain (cannot handle); the chain stops on the first
// non-abstaining vote and falls back to a default decision.
//
// The middleware injects the identity into the request context and
// applies a per-session token bucket before the handler runs.
package auth
