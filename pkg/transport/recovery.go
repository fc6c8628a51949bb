package transport

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/rhuss/healthchat/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to 500 server error responses. The server continues to
// accept new requests after a panic is recovered.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				slog.Error("panic in handler",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"panic", rv,
					"stack", string(debug.Stack()),
				)
				WriteAPIError(w, api.NewServerError("internal server error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
