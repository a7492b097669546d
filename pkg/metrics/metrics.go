package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор коллекторов Prometheus сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBOpenConns     prometheus.Gauge
	DBInUseConns    prometheus.Gauge
	DBIdleConns     prometheus.Gauge

	OutboxPublished *prometheus.CounterVec
	OutboxFailed    *prometheus.CounterVec
	OutboxPending   prometheus.Gauge

	NotificationsSent *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре (его отдаёт promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "db_query_errors_total",
			Help:      "Database query errors",
		}, []string{"operation"}),
		DBOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_open_connections",
			Help:      "Open connections in the pool",
		}),
		DBInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_in_use_connections",
			Help:      "Connections currently in use",
		}),
		DBIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_idle_connections",
			Help:      "Idle connections in the pool",
		}),
		OutboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "outbox_published_total",
			Help:      "Outbox events handed to the publisher",
		}, []string{"event_type"}),
		OutboxFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "outbox_failed_total",
			Help:      "Outbox publish attempts that failed",
		}, []string{"event_type"}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "outbox_pending_events",
			Help:      "Unpublished outbox events still eligible for delivery",
		}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "notifications_total",
			Help:      "Notifications by channel and result",
		}, []string{"channel", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConns,
		m.DBInUseConns,
		m.DBIdleConns,
		m.OutboxPublished,
		m.OutboxFailed,
		m.OutboxPending,
		m.NotificationsSent,
	)

	return m
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	m.DBOpenConns.Set(float64(open))
	m.DBInUseConns.Set(float64(inUse))
	m.DBIdleConns.Set(float64(idle))
}

func (m *Metrics) IncOutboxPublished(eventType string) {
	m.OutboxPublished.WithLabelValues(eventType).Inc()
}

func (m *Metrics) IncOutboxFailed(eventType string) {
	m.OutboxFailed.WithLabelValues(eventType).Inc()
}

func (m *Metrics) SetOutboxPending(count int) {
	m.OutboxPending.Set(float64(count))
}

func (m *Metrics) IncNotification(channel string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.NotificationsSent.WithLabelValues(channel, result).Inc()
}
