package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrorsTotal *prometheus.CounterVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	SlotsComputedTotal      *prometheus.CounterVec
	BookingsCreatedTotal    *prometheus.CounterVec
	BookingConflictsTotal   prometheus.Counter
	BusinessServiceFailures *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	namespace := sanitize(serviceName)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),

		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency distribution.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"operation"}),

		DBQueryErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of failed database queries.",
		}, []string{"operation"}),

		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Current number of open database connections.",
		}),

		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "in_use_connections",
			Help:      "Current number of database connections in use.",
		}),

		DBIdleConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "idle_connections",
			Help:      "Current number of idle database connections.",
		}),

		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "wait_count",
			Help:      "Total number of connections waited for.",
		}),

		SlotsComputedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "slots_computed_total",
			Help:      "Total number of slots returned by availability requests, by availability.",
		}, []string{"available"}),

		BookingsCreatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "bookings_created_total",
			Help:      "Total number of bookings created, by staff selection mode.",
		}, []string{"mode"}),

		BookingConflictsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "booking_conflicts_total",
			Help:      "Total number of booking inserts rejected by the storage overlap constraint.",
		}),

		BusinessServiceFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "integration",
			Name:      "business_service_failures_total",
			Help:      "Failed calls to the business catalogue service, by reason.",
		}, []string{"reason"}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, elapsed time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		m.DBQueryErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// ObserveSlots фиксирует количество выданных слотов
func (m *Metrics) ObserveSlots(available, unavailable int) {
	m.SlotsComputedTotal.WithLabelValues("true").Add(float64(available))
	m.SlotsComputedTotal.WithLabelValues("false").Add(float64(unavailable))
}

// IncBookingsCreated увеличивает счетчик созданных бронирований
func (m *Metrics) IncBookingsCreated(mode string) {
	m.BookingsCreatedTotal.WithLabelValues(mode).Inc()
}

// IncBookingConflicts увеличивает счетчик конфликтов при вставке
func (m *Metrics) IncBookingConflicts() {
	m.BookingConflictsTotal.Inc()
}

// IncBusinessServiceFailure увеличивает счетчик ошибок обращения к каталогу бизнеса
func (m *Metrics) IncBusinessServiceFailure(reason string) {
	m.BusinessServiceFailures.WithLabelValues(reason).Inc()
}

// sanitize приводит имя сервиса к допустимому имени метрики
func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
