package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cap_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	DecodeErrors     *prometheus.CounterVec // labels: reason={malformed,missing_field,failed}
	PipelineRunning  prometheus.Gauge
	MessagesDropped  *prometheus.CounterVec // labels: outcome={skipped,failed}
	CommitErrors     prometheus.Counter

	// Decoding outcome metrics.
	DecodeDiagnostics *prometheus.CounterVec // labels: field
	VTECDecoded       *prometheus.CounterVec // labels: kind={pvtec,hvtec}
	AlertsDecoded     *prometheus.CounterVec // labels: msg_type
	RelevantAlerts    prometheus.Counter
	DuplicateAlerts   prometheus.Counter
	FilteredAlerts    prometheus.Counter

	// Tracker state.
	TrackedAlerts  prometheus.Gauge
	TrackedThreads prometheus.Gauge
	SweptAlerts    prometheus.Counter

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method=forward, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method=forward, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method=forward
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		DecodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "CAP documents that could not be decoded, by reason.",
		}, []string{"reason"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		MessagesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_total",
			Help:      "Messages committed without producing a record, by outcome.",
		}, []string{"outcome"}),
		CommitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commit_errors_total",
			Help:      "Offset commits that failed.",
		}),
		DecodeDiagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_diagnostics_total",
			Help:      "Non-fatal decode anomalies by CAP field.",
		}, []string{"field"}),
		VTECDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vtec_decoded_total",
			Help:      "Info blocks carrying VTEC, by record kind.",
		}, []string{"kind"}),
		AlertsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_decoded_total",
			Help:      "Successfully decoded alerts by message type.",
		}, []string{"msg_type"}),
		RelevantAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relevant_alerts_total",
			Help:      "Decoded alerts relevant to the watch location.",
		}),
		DuplicateAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_alerts_total",
			Help:      "Alerts already tracked under the same sender, identifier and sent time.",
		}),
		FilteredAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filtered_alerts_total",
			Help:      "Alerts not published because they are irrelevant to the watch location.",
		}),
		TrackedAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_alerts",
			Help:      "Alerts currently held by the tracker.",
		}),
		TrackedThreads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_threads",
			Help:      "Alert threads currently held by the tracker.",
		}),
		SweptAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swept_alerts_total",
			Help:      "Expired alerts removed from the tracker.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when watch location geocoding is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.MessagesProduced,
		m.DecodeErrors,
		m.PipelineRunning,
		m.MessagesDropped,
		m.CommitErrors,
		m.DecodeDiagnostics,
		m.VTECDecoded,
		m.AlertsDecoded,
		m.RelevantAlerts,
		m.DuplicateAlerts,
		m.FilteredAlerts,
		m.TrackedAlerts,
		m.TrackedThreads,
		m.SweptAlerts,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}
