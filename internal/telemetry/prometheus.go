// Package telemetry exposes Prometheus collectors for pipeline runs and the
// HTTP surface.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/influencer-roas/internal/metrics"
	"github.com/AngelCh415/influencer-roas/internal/models"
)

type Option func(*Collector)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option { return func(c *Collector) { c.namespace = ns } }

// WithRegistry registers on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option { return func(c *Collector) { c.registry = reg } }

type Collector struct {
	namespace string
	registry  *prometheus.Registry

	runs         prometheus.Counter
	runDuration  prometheus.Histogram
	emptyRuns    prometheus.Counter
	rows         *prometheus.GaugeVec
	infiniteROAS prometheus.Gauge
	issues       *prometheus.CounterVec

	datasetLoads *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func New(opts ...Option) *Collector {
	c := &Collector{namespace: "roas"}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}
	auto := promauto.With(c.registry)

	c.runs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace, Subsystem: "pipeline", Name: "runs_total",
		Help: "Total number of pipeline runs",
	})
	c.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: c.namespace, Subsystem: "pipeline", Name: "run_duration_seconds",
		Help: "Pipeline run duration in seconds", Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
	c.emptyRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace, Subsystem: "pipeline", Name: "empty_runs_total",
		Help: "Runs whose selection left no aggregated rows",
	})
	c.rows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace, Subsystem: "pipeline", Name: "rows",
		Help: "Row counts of the last run per derived table",
	}, []string{"table"})
	c.infiniteROAS = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: c.namespace, Subsystem: "pipeline", Name: "infinite_roas_rows",
		Help: "Rows with zero or missing payout in the last run",
	})
	c.issues = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace, Subsystem: "ingest", Name: "data_issues_total",
		Help: "Data-quality issues found while loading datasets",
	}, []string{"kind"})
	c.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace, Subsystem: "ingest", Name: "dataset_loads_total",
		Help: "Dataset load attempts by result",
	}, []string{"result"})
	c.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace, Subsystem: "http", Name: "requests_total",
		Help: "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})
	c.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace, Subsystem: "http", Name: "request_duration_seconds",
		Help: "HTTP request duration in seconds", Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status_code"})
	return c
}

// ObserveRun implements metrics.Observer.
func (c *Collector) ObserveRun(r metrics.Report, took time.Duration) {
	c.runs.Inc()
	c.runDuration.Observe(took.Seconds())
	if r.Empty() {
		c.emptyRuns.Inc()
	}
	c.rows.WithLabelValues("influencers").Set(float64(len(r.Filtered.Influencers)))
	c.rows.WithLabelValues("tracking").Set(float64(len(r.Filtered.Tracking)))
	c.rows.WithLabelValues("payouts").Set(float64(len(r.Filtered.Payouts)))
	c.rows.WithLabelValues("metrics").Set(float64(len(r.Metrics)))
	c.rows.WithLabelValues("posts").Set(float64(len(r.Posts)))
	c.infiniteROAS.Set(float64(r.InfiniteCount()))
}

// ObserveLoad counts a dataset load and its data issues by kind.
func (c *Collector) ObserveLoad(issues []models.DataIssue, err error) {
	if err != nil {
		c.datasetLoads.WithLabelValues("error").Inc()
		return
	}
	c.datasetLoads.WithLabelValues("ok").Inc()
	for _, is := range issues {
		c.issues.WithLabelValues(is.Kind).Inc()
	}
}

// ObserveRequest implements utils.RequestRecorder.
func (c *Collector) ObserveRequest(route, method, code string, took time.Duration) {
	c.httpRequests.WithLabelValues(route, method, code).Inc()
	c.httpRequestDuration.WithLabelValues(route, method, code).Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
