// Package metrics provides Prometheus metrics for the clubboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Scoring
	leaderboardComputations   prometheus.Counter
	participationComputations prometheus.Counter
	leaderboardLatency        prometheus.Histogram

	// Tally pipeline
	tallyJobsProcessed prometheus.Counter
	tallyJobsFailed    prometheus.Counter
	tallyMembersSynced prometheus.Counter
	tallyLatency       prometheus.Histogram
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueRejected      *prometheus.CounterVec
	workerCount        prometheus.Gauge

	// Store
	membersTotal     prometheus.Gauge
	eventsTotal      prometheus.Gauge
	storeOpLatency   *prometheus.HistogramVec
	duplicateCreates prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	authFailures        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clubboard",
		subsystem:        "portal",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix != "" {
		return m.metricPrefix + "_" + n
	}
	return n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name(name), Help: help,
		ConstLabels: m.customLabels, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.leaderboardComputations = m.counter("leaderboard_computations_total", "Number of leaderboard rankings computed")
	m.participationComputations = m.counter("participation_computations_total", "Number of member participation views computed")
	m.leaderboardLatency = m.histogram("leaderboard_latency_milliseconds", "Time to load and rank all members", m.histogramBuckets)

	m.tallyJobsProcessed = m.counter("tally_jobs_processed_total", "Tally jobs completed by workers")
	m.tallyJobsFailed = m.counter("tally_jobs_failed_total", "Tally jobs that failed")
	m.tallyMembersSynced = m.counter("tally_members_synced_total", "Member totals rewritten by the tally pipeline")
	m.tallyLatency = m.histogram("tally_latency_milliseconds", "Time to process one tally job", m.histogramBuckets)
	m.queueSize = m.gauge("tally_queue_size", "Jobs waiting in the tally queue")
	m.queueCapacity = m.gauge("tally_queue_capacity", "Capacity of the tally queue")
	m.queueRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("tally_queue_rejected_total"),
		Help: "Tally jobs rejected by the queue", ConstLabels: m.customLabels,
	}, []string{"reason"})
	m.workerCount = m.gauge("tally_worker_count", "Tally workers running")

	m.membersTotal = m.gauge("members_total", "Members in the store")
	m.eventsTotal = m.gauge("events_total", "Events in the store")
	m.storeOpLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("store_operation_latency_milliseconds"),
		Help: "Store operation latency", Buckets: m.histogramBuckets, ConstLabels: m.customLabels,
	}, []string{"operation"})
	m.duplicateCreates = m.counter("duplicate_creates_total", "Create requests rejected by idempotency key")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("http_requests_total"),
		Help: "HTTP requests by endpoint, method and status", ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("http_request_duration_milliseconds"),
		Help: "HTTP request duration", Buckets: m.histogramBuckets, ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("errors_by_endpoint_total"),
		Help: "HTTP errors by endpoint and error type", ConstLabels: m.customLabels,
	}, []string{"endpoint", "method", "error_type"})
	m.authFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: m.name("auth_failures_total"),
		Help: "Rejected bearer tokens by reason", ConstLabels: m.customLabels,
	}, []string{"reason"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Allocated heap bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100})
}

// RecordLeaderboardComputation counts a ranking and observes its latency.
func RecordLeaderboardComputation(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.leaderboardComputations.Inc()
	globalManager.leaderboardLatency.Observe(latencyMs)
}

// RecordParticipationComputation counts a participation view.
func RecordParticipationComputation() {
	if !globalManager.enabled {
		return
	}
	globalManager.participationComputations.Inc()
}

// RecordTallyJob records a finished tally job.
func RecordTallyJob(members int, latencyMs float64, err error) {
	if !globalManager.enabled {
		return
	}
	if err != nil {
		globalManager.tallyJobsFailed.Inc()
	} else {
		globalManager.tallyJobsProcessed.Inc()
	}
	globalManager.tallyMembersSynced.Add(float64(members))
	globalManager.tallyLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current tally queue length.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the tally queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueRejected counts a job the queue refused.
func RecordQueueRejected(reason string) { globalManager.queueRejected.WithLabelValues(reason).Inc() }

// UpdateWorkerCount sets the number of running tally workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// UpdateStoreCounts sets the member and event gauges.
func UpdateStoreCounts(members, events int) {
	globalManager.membersTotal.Set(float64(members))
	globalManager.eventsTotal.Set(float64(events))
}

// RecordStoreOperation observes the latency of a store call.
func RecordStoreOperation(operation string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeOpLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordDuplicateCreate counts a create request replayed with a known idempotency key.
func RecordDuplicateCreate() { globalManager.duplicateCreates.Inc() }

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an HTTP error with endpoint, method and type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordAuthFailure counts a rejected bearer token.
func RecordAuthFailure(reason string) { globalManager.authFailures.WithLabelValues(reason).Inc() }

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
