package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges shared by the
// API service and the OSD converter.
type Metrics struct {
	// API request metrics.
	APIRequests *prometheus.CounterVec // labels: endpoint, outcome={ok,client_error,upstream_error}

	// Upstream government-service metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: service={sda,edit,cropscape,soilweb}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: service
	CacheLookups     *prometheus.CounterVec   // labels: service, result={hit,miss}

	// OSD conversion metrics.
	FilesConverted   prometheus.Counter
	ParseErrors      prometheus.Counter
	RecordsPublished prometheus.Counter
	ConvertDuration  prometheus.Histogram
	ConverterRunning prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.APIRequests,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.FilesConverted,
		m.ParseErrors,
		m.RecordsPublished,
		m.ConvertDuration,
		m.ConverterRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soil_planner",
			Name:      "api_requests_total",
			Help:      "API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soil_planner",
			Name:      "upstream_requests_total",
			Help:      "Upstream service requests by service and outcome.",
		}, []string{"service", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "soil_planner",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream service request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soil_planner",
			Name:      "cache_lookups_total",
			Help:      "Adapter cache lookups by service and result.",
		}, []string{"service", "result"}),
		FilesConverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soil_planner",
			Name:      "osd_files_converted_total",
			Help:      "OSD files successfully parsed during conversion.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soil_planner",
			Name:      "osd_parse_errors_total",
			Help:      "OSD files skipped because parsing failed.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soil_planner",
			Name:      "records_published_total",
			Help:      "Series records written to the conversion sinks.",
		}),
		ConvertDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "soil_planner",
			Name:      "convert_duration_seconds",
			Help:      "Duration of a complete OSD directory conversion.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),
		ConverterRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "soil_planner",
			Name:      "converter_running",
			Help:      "1 while an OSD conversion is in progress.",
		}),
	}
}
