// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogRequests is an HTTP middleware that logs every request passing
// through the handler chain, including websocket upgrade requests.
func LogRequests(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote":     r.RemoteAddr,
				"elapsed_ms": time.Since(start).Milliseconds(),
			}).Info("Request served")
		})
	}
}

// ConnEntry returns a log entry scoped to a single websocket session.
// All session lifecycle logging hangs off the returned entry so the
// connection id threads through every line.
func ConnEntry(logger *logrus.Logger, connID uuid.UUID, remote string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"conn_id": connID,
		"remote":  remote,
	})
}
