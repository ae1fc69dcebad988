package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// responseMeter captures the status code and body size a handler produced.
type responseMeter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (m *responseMeter) WriteHeader(code int) {
	m.status = code
	m.ResponseWriter.WriteHeader(code)
}

func (m *responseMeter) Write(b []byte) (int, error) {
	n, err := m.ResponseWriter.Write(b)
	m.bytes += n
	return n, err
}

func (m *responseMeter) Unwrap() http.ResponseWriter {
	return m.ResponseWriter
}

// Logger writes one "request" record per response. Server errors log at
// error level and client errors at warn.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			meter := &responseMeter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(meter, r)

			logger.LogAttrs(context.Background(), levelFor(meter.status), "request",
				slog.String("method", r.Method),
				slog.String("uri", r.URL.RequestURI()),
				slog.Int("status", meter.status),
				slog.Int("bytes", meter.bytes),
				slog.String("addr", r.RemoteAddr),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
