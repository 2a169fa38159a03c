package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace 所有指标的前缀
const namespace = "freedomwall"

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 数据库指标
	dbConnectionsActive prometheus.Gauge
	dbConnectionsIdle   prometheus.Gauge
	casRetriesTotal     *prometheus.CounterVec

	// 缓存指标
	cacheHitsTotal         *prometheus.CounterVec
	cacheMissesTotal       *prometheus.CounterVec
	cacheOperationDuration *prometheus.HistogramVec

	// 业务指标
	rateLimitedTotal  *prometheus.CounterVec
	contentCensored   *prometheus.CounterVec
	sanitizerFailures prometheus.Counter
	reactionsTotal    *prometheus.CounterVec
	wsConnections     prometheus.Gauge
	notifications     *prometheus.CounterVec

	// 应用指标
	activeGoroutines prometheus.Gauge
	memoryUsage      prometheus.Gauge
}

// NewMetricsCollector 创建指标收集器，注册到传入的 Registerer
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	f := promauto.With(reg)
	return &MetricsCollector{
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		dbConnectionsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_active",
				Help:      "Number of active database connections",
			},
		),

		dbConnectionsIdle: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_idle",
				Help:      "Number of idle database connections",
			},
		),

		casRetriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_cas_retries_total",
				Help:      "Optimistic update retries caused by a concurrent writer",
			},
			[]string{"entity"},
		),

		cacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache_type", "key_prefix"},
		),

		cacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache_type", "key_prefix"},
		),

		cacheOperationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_operation_duration_seconds",
				Help:      "Cache operation duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"operation", "cache_type"},
		),

		rateLimitedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the sliding window limiter",
			},
			[]string{"class"},
		),

		contentCensored: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "content_censored_total",
				Help:      "Texts altered by the censor",
			},
			[]string{"filter"},
		),

		sanitizerFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sanitizer_failures_total",
				Help:      "Sanitizer panics recovered and passed through unmodified",
			},
		),

		reactionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reactions_total",
				Help:      "Like, reaction, vote and report operations",
			},
			[]string{"kind", "result"},
		),

		wsConnections: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Open websocket connections",
			},
		),

		notifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Dispatched notifications",
			},
			[]string{"type", "status"},
		),

		activeGoroutines: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_goroutines",
				Help:      "Number of active goroutines",
			},
		),

		memoryUsage: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "memory_usage_bytes",
				Help:      "Memory usage in bytes",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize > 0 {
		m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
	}
}

// RecordCacheOperation 记录缓存操作指标
func (m *MetricsCollector) RecordCacheOperation(operation, cacheType, keyPrefix string, duration time.Duration, hit bool) {
	if hit {
		m.cacheHitsTotal.WithLabelValues(cacheType, keyPrefix).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(cacheType, keyPrefix).Inc()
	}
	m.cacheOperationDuration.WithLabelValues(operation, cacheType).Observe(duration.Seconds())
}

// UpdateDBConnections 更新数据库连接指标
func (m *MetricsCollector) UpdateDBConnections(active, idle int) {
	m.dbConnectionsActive.Set(float64(active))
	m.dbConnectionsIdle.Set(float64(idle))
}

func (m *MetricsCollector) RecordCASRetry(entity string) {
	m.casRetriesTotal.WithLabelValues(entity).Inc()
}

func (m *MetricsCollector) RecordRateLimited(class string) {
	m.rateLimitedTotal.WithLabelValues(class).Inc()
}

func (m *MetricsCollector) RecordCensored(filter string) {
	m.contentCensored.WithLabelValues(filter).Inc()
}

func (m *MetricsCollector) RecordSanitizerFailure() {
	m.sanitizerFailures.Inc()
}

// RecordReaction kind: like/react/vote/report，result: added/removed/changed/rejected
func (m *MetricsCollector) RecordReaction(kind, result string) {
	m.reactionsTotal.WithLabelValues(kind, result).Inc()
}

func (m *MetricsCollector) SetWSConnections(n int) {
	m.wsConnections.Set(float64(n))
}

func (m *MetricsCollector) RecordNotification(notificationType, status string) {
	m.notifications.WithLabelValues(notificationType, status).Inc()
}

// UpdateSystemMetrics 更新系统指标
func (m *MetricsCollector) UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.activeGoroutines.Set(float64(runtime.NumGoroutine()))
	m.memoryUsage.Set(float64(ms.Alloc))
}

// StatusCategory 获取状态分类
func StatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取全局指标收集器，注册到默认 Registerer
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}
