package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger emits one structured line per completed request. The level
// follows the response class: 5xx as error, 4xx as warn, the rest as info.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			attrs := []any{
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			}

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				slog.ErrorContext(r.Context(), "http request", attrs...)
			case ww.Status() >= http.StatusBadRequest:
				slog.WarnContext(r.Context(), "http request", attrs...)
			default:
				slog.InfoContext(r.Context(), "http request", attrs...)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}
