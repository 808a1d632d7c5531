package rest

import (
	"net/http"
	"strings"
	"time"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/port"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// traceIDFrom берет id трассировки из заголовка браузера. Все, что не UUID, заменяется новым.
func traceIDFrom(r *http.Request) string {
	traceID := r.Header.Get(traceHeader)
	if _, err := uuid.Parse(traceID); err != nil {
		return uuid.New().String()
	}
	return traceID
}

// isEventStream - подписка на живую сессию: соединение живет минутами.
func isEventStream(r *http.Request) bool {
	return strings.HasSuffix(r.URL.Path, "/events")
}

// LoggerMiddleware кладет в контекст логгер с trace_id и пишет начало и конец запроса.
// trace_id возвращается клиенту в X-Trace-ID и уходит дальше в travel API.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := traceIDFrom(r)
			requestLogger := logger.WithFields(port.Fields{"trace_id": traceID})
			accessLogger := requestLogger.WithFields(port.Fields{
				"http_method": r.Method,
				"http_path":   r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

			ctx := contextkeys.ContextWithTraceID(contextkeys.ContextWithLogger(r.Context(), requestLogger), traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(traceHeader, traceID)

			stream := isEventStream(r)
			if stream {
				accessLogger.Debug("Event stream requested", nil)
			} else {
				accessLogger.Info("Request started", nil)
			}
			started := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(started).Milliseconds(),
			}
			switch {
			case ww.Status() >= http.StatusInternalServerError:
				accessLogger.Warn("Request failed", fields)
			case stream:
				accessLogger.Info("Event stream finished", fields)
			default:
				accessLogger.Info("Request finished", fields)
			}
		})
	}
}
