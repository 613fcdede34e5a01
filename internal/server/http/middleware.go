package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dpetrov/authkeeper/internal/common"
	"github.com/dpetrov/authkeeper/internal/logging"
	"github.com/dpetrov/authkeeper/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFromRequest returns the identity context resolved for the request.
// Requests that never passed the identity middleware resolve as anonymous.
func IdentityFromRequest(r *http.Request) auth.Context {
	if v, ok := r.Context().Value(identityKey).(auth.Context); ok {
		return v
	}
	return auth.Anonymous()
}

// identityMiddleware extracts the bearer token from the Authorization header
// and stashes the resolved identity context in the request context. A missing
// header and a bad token both resolve to the anonymous context; operations
// that require identity reject anonymous callers themselves.
func identityMiddleware(secretKey []byte) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var raw string
			if h := r.Header.Get("Authorization"); h != "" {
				if token, ok := strings.CutPrefix(h, "Bearer "); ok {
					raw = strings.TrimSpace(token)
				}
			}

			authCtx := auth.ResolveContext(raw, secretKey)
			ctx := context.WithValue(r.Context(), identityKey, authCtx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestLogger logs each request with its status and duration. The request
// gets a random ID so entries of one request can be correlated.
func requestLogger(logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID, _ := common.MakeRandHexString(8)

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "http request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// responseWriter intercepts the status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
