package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// loggedResponse remembers the status and body size that went out.
type loggedResponse struct {
	http.ResponseWriter
	status int
	size   int64
}

func (w *loggedResponse) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggedResponse) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.size += int64(n)
	return n, err
}

// WithAccessLog emits one structured line per request, tagged with the
// request id set by WithRequestID.
func WithAccessLog(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			lw := &loggedResponse{ResponseWriter: w}

			next.ServeHTTP(lw, r)

			logger.Info("http request",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", lw.status,
				"bytes", lw.size,
				"duration_ms", time.Since(started).Milliseconds(),
			)
		})
	}
}
