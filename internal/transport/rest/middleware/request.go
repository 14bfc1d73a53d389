package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "matte/internal/common/errors"
	commonhttp "matte/internal/common/http"
	"matte/internal/common/logger"
)

// RequestID reuses the caller's X-Request-ID or mints one, and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(commonhttp.RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(commonhttp.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(commonhttp.WithRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging writes one line per request. Panics are turned into a 500.
func Logging(log logger.Logger, errHandler *apperrors.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					log.Error("panic while serving request", map[string]interface{}{
						"path":      r.URL.Path,
						"requestId": commonhttp.RequestIDFromContext(r.Context()),
						"panic":     fmt.Sprint(p),
					})
					errHandler.Write(rec, r, apperrors.NewInternalError(fmt.Errorf("panic: %v", p)))
				}

				log.Info("request served", map[string]interface{}{
					"method":        r.Method,
					"path":          r.URL.Path,
					"status":        rec.status,
					"requestId":     commonhttp.RequestIDFromContext(r.Context()),
					"executionTime": time.Since(start).Milliseconds(),
				})
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
