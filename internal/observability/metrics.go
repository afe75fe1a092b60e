package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors. All methods are safe on a
// nil receiver so components can run without metrics in tests.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrorsTotal     *prometheus.CounterVec

	AuthAttemptsTotal *prometheus.CounterVec
	ActiveUsers       prometheus.Gauge

	PizzasSoldTotal    prometheus.Counter
	RevenueTotal       prometheus.Counter
	PizzaFailuresTotal prometheus.Counter
	FactoryLatency     prometheus.Histogram

	CPUPercent    prometheus.Gauge
	MemoryPercent prometheus.Gauge
}

// NewMetrics creates and registers all collectors on registry.
func NewMetrics(registry *prometheus.Registry, source string) *Metrics {
	labels := prometheus.Labels{"source": source}
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pizza_http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "pizza_http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		HTTPErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pizza_http_errors_total",
			Help:        "HTTP requests that ended in an error response",
			ConstLabels: labels,
		}, []string{"method", "path", "code"}),
		AuthAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pizza_auth_attempts_total",
			Help:        "Login and registration attempts by result",
			ConstLabels: labels,
		}, []string{"result"}),
		ActiveUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "pizza_active_users",
			Help:        "Sessions opened minus sessions closed since start",
			ConstLabels: labels,
		}),
		PizzasSoldTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pizza_sold_total",
			Help:        "Pizzas successfully made by the factory",
			ConstLabels: labels,
		}),
		RevenueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pizza_revenue_total",
			Help:        "Revenue from fulfilled orders",
			ConstLabels: labels,
		}),
		PizzaFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "pizza_failures_total",
			Help:        "Orders the factory failed to fulfill",
			ConstLabels: labels,
		}),
		FactoryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "pizza_factory_latency_seconds",
			Help:        "Latency of pizza factory calls",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		CPUPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "pizza_cpu_percent",
			Help:        "Host CPU usage percentage",
			ConstLabels: labels,
		}),
		MemoryPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "pizza_memory_percent",
			Help:        "Host memory usage percentage",
			ConstLabels: labels,
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPErrorsTotal,
		m.AuthAttemptsTotal,
		m.ActiveUsers,
		m.PizzasSoldTotal,
		m.RevenueTotal,
		m.PizzaFailuresTotal,
		m.FactoryLatency,
		m.CPUPercent,
		m.MemoryPercent,
	)
	return m
}

// Registry exposes the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts an error response by domain error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.HTTPErrorsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordAuth counts a credential check.
func (m *Metrics) RecordAuth(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.AuthAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveUsers.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveUsers.Dec()
}

// RecordOrder counts a fulfilled order.
func (m *Metrics) RecordOrder(pizzas int, revenue float64, latency time.Duration) {
	if m == nil {
		return
	}
	m.PizzasSoldTotal.Add(float64(pizzas))
	m.RevenueTotal.Add(revenue)
	m.FactoryLatency.Observe(latency.Seconds())
}

// RecordOrderFailure counts an order the factory rejected.
func (m *Metrics) RecordOrderFailure(latency time.Duration) {
	if m == nil {
		return
	}
	m.PizzaFailuresTotal.Inc()
	m.FactoryLatency.Observe(latency.Seconds())
}

// SetSystemUsage records host CPU and memory percentages.
func (m *Metrics) SetSystemUsage(cpuPercent, memoryPercent float64) {
	if m == nil {
		return
	}
	m.CPUPercent.Set(cpuPercent)
	m.MemoryPercent.Set(memoryPercent)
}
