package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request with method, path, status, duration,
// and the chi request id.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			logger.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(req.Context()),
			)
		})
	}
}
