package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// Every method is safe on a nil receiver.
type Metrics struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	ledgerOperations  *prometheus.CounterVec
	leaveTransitions  *prometheus.CounterVec
	outboxPublished   *prometheus.CounterVec
	notificationsSent prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leave_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	ledger := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_ledger_operations_total",
		Help: "Balance ledger operations by operation and outcome.",
	}, []string{"operation", "result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_request_transitions_total",
		Help: "Leave request status transitions.",
	}, []string{"from", "to"})
	outbox := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_outbox_events_total",
		Help: "Outbox events relayed to kafka by outcome.",
	}, []string{"result"})
	notifications := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "leave_notifications_total",
		Help: "Notifications written to user inboxes.",
	})
	registry.MustRegister(requests, duration, ledger, transitions, outbox, notifications)

	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:     requests,
		requestDuration:   duration,
		ledgerOperations:  ledger,
		leaveTransitions:  transitions,
		outboxPublished:   outbox,
		notificationsSent: notifications,
	}
}

// Handler serves /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request count and latency per matched gin route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) LedgerOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.ledgerOperations.WithLabelValues(operation, result(err)).Inc()
}

func (m *Metrics) LeaveTransition(from, to string) {
	if m == nil {
		return
	}
	m.leaveTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) OutboxPublished(err error) {
	if m == nil {
		return
	}
	m.outboxPublished.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) NotificationSent() {
	if m == nil {
		return
	}
	m.notificationsSent.Inc()
}

// Registerer exposes the registry for collectors owned elsewhere.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
