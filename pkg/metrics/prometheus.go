// Package metrics provides Prometheus metrics for the teesheet scheduling service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Bucket layouts for the scheduling histograms.
//
//nolint:gochecknoglobals // fixed layouts
var (
	dayCostBuckets     = []float64{0, 1, 2, 4, 8, 16, 32, 64, 128}
	dayAttemptsBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
	gcPauseBuckets     = []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
	runLatencyBuckets  = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 1e4}
)

// Manager manages all Prometheus metrics for the teesheet service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Scheduling metrics - what the service exists for
	runsTotal      *prometheus.CounterVec
	runLatency     prometheus.Histogram
	daysScheduled  *prometheus.CounterVec
	dayCost        prometheus.Histogram
	dayAttempts    prometheus.Histogram
	conflictsTotal prometheus.Counter

	// Job metrics
	jobsSubmitted prometheus.Counter
	jobsDuplicate prometheus.Counter
	jobsRejected  *prometheus.CounterVec
	storedRuns    prometheus.Gauge

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerBusyCount         prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "teesheet",
		subsystem:        "scheduler",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(
		m.counterOpts("runs_total", "Total number of scheduling runs by final state"),
		[]string{"state"},
	)
	m.runLatency = auto.NewHistogram(m.histogramOpts("run_latency_milliseconds", "Wall time of a full scheduling run in milliseconds", runLatencyBuckets))
	m.daysScheduled = auto.NewCounterVec(
		m.counterOpts("days_scheduled_total", "Days committed, split by perfect and best-effort outcome"),
		[]string{"outcome"},
	)
	m.dayCost = auto.NewHistogram(m.histogramOpts("day_cost_pairs", "Repeated pairs in each committed day", dayCostBuckets))
	m.dayAttempts = auto.NewHistogram(m.histogramOpts("day_attempts", "Assignment attempts spent per committed day", dayAttemptsBuckets))
	m.conflictsTotal = auto.NewCounter(m.counterOpts("conflicts_total", "Total number of repeated pairings reported as conflicts"))

	m.jobsSubmitted = auto.NewCounter(m.counterOpts("jobs_submitted_total", "Total number of accepted scheduling jobs"))
	m.jobsDuplicate = auto.NewCounter(m.counterOpts("jobs_duplicate_total", "Total number of submissions answered from the idempotency index"))
	m.jobsRejected = auto.NewCounterVec(
		m.counterOpts("jobs_rejected_total", "Total number of rejected submissions by reason"),
		[]string{"reason"},
	)
	m.storedRuns = auto.NewGauge(m.gaugeOpts("stored_runs", "Number of runs held by the in-memory run store"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the job queue (backlog indicator)"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum capacity of the job queue"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Job queue utilization ratio (size / capacity)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of failed enqueue attempts"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Number of scheduling workers"))
	m.workerBusyCount = auto.NewGauge(m.gaugeOpts("worker_busy_count", "Number of workers currently running a job"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Time a worker spends on one job in milliseconds", runLatencyBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of jobs that failed inside a worker"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component and error type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds", gcPauseBuckets))
}

// Scheduling Metrics Functions.

// RecordRun records a finished scheduling run with its final state.
func RecordRun(state string, latencyMs float64) {
	globalManager.runsTotal.WithLabelValues(state).Inc()
	globalManager.runLatency.Observe(latencyMs)
}

// RecordDay records a committed day with its repeat cost and attempt count.
func RecordDay(cost, attempts int) {
	outcome := "perfect"
	if cost > 0 {
		outcome = "best_effort"
	}
	globalManager.daysScheduled.WithLabelValues(outcome).Inc()
	globalManager.dayCost.Observe(float64(cost))
	globalManager.dayAttempts.Observe(float64(attempts))
}

// RecordConflicts adds n reported conflicts.
func RecordConflicts(n int) {
	if n > 0 {
		globalManager.conflictsTotal.Add(float64(n))
	}
}

// Job Metrics Functions.

// RecordJobSubmitted increments the accepted jobs counter.
func RecordJobSubmitted() {
	globalManager.jobsSubmitted.Inc()
}

// RecordJobDuplicate increments the duplicate submissions counter.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// RecordJobRejected increments the rejected submissions counter for reason.
func RecordJobRejected(reason string) {
	globalManager.jobsRejected.WithLabelValues(reason).Inc()
}

// UpdateStoredRuns sets the number of runs held by the store.
func UpdateStoredRuns(count int) {
	globalManager.storedRuns.Set(float64(count))
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// AddWorkerBusy adjusts the busy worker gauge by delta.
func AddWorkerBusy(delta int) {
	globalManager.workerBusyCount.Add(float64(delta))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
