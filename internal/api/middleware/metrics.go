package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/pkg/metrics"
)

const unmatchedRoute = "unmatched"

// statusRecorder запоминает код ответа
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware собирает метрики HTTP запросов
// Маршрут берется из шаблона mux, чтобы ID в пути не раздували кардинальность
func MetricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			m.ObserveHTTPRequest(r.Method, routeTemplate(r), rec.status, time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}
