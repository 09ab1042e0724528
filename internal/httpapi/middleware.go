package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"engagement-dashboard/internal/config"
)

// basicAuth rejects requests without the configured credentials.
// When no user is configured every request passes.
func basicAuth(creds config.BasicAuth, logger *zap.Logger) func(http.Handler) http.Handler {
	if !creds.Enabled() {
		logger.Warn("basic auth not configured - API is open")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !creds.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if ok &&
				subtle.ConstantTimeCompare([]byte(user), []byte(creds.User)) == 1 &&
				subtle.ConstantTimeCompare([]byte(pass), []byte(creds.Password)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			logger.Debug("request rejected: bad credentials",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			w.Header().Set("WWW-Authenticate", `Basic realm="Secure Area"`)
			http.Error(w, "Authentication required", http.StatusUnauthorized)
		})
	}
}

// instrument records request counts and latency by route pattern and logs each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(started)

		s.d.Metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(status), elapsed)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
