// Package transport provides the HTTP middleware chain and error
// helpers shared by the healthchat HTTP surface.
//
// Middleware are plain func(http.Handler) http.Handler values composed
// with Chain. Built-in middleware provides panic recovery, request ID
// assignment (X-Request-ID) and structured request logging via log/slog.
//
// Errors leave the service as {"error":{"type","message"}} JSON bodies
// built from pkg/api; HTTPStatusFromError maps error types to status
// codes.
//
// InFlightRegistry tracks cancellable provider calls per session so a
// session can be torn down while a reply is still pending.
package transport
