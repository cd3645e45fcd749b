package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// AccessLogger интерфейс для журнала запросов
type AccessLogger interface {
	Info(format string, v ...interface{})
}

// AccessLog пишет строку на каждый запрос с request_id из RequestID
// Должен стоять после RequestID
func AccessLog(logger AccessLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("%s %s - status=%d, duration=%s, request_id=%s",
				r.Method, r.URL.Path, rec.status, time.Since(start), GetRequestID(r.Context()))
		})
	}
}
