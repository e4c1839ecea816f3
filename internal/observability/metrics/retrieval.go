package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RetrievalMetrics owns the service registry and the retrieval/ingest series.
type RetrievalMetrics struct {
	registry *prometheus.Registry
	service  string

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	contextChunks   *prometheus.HistogramVec
	noContextTotal  *prometheus.CounterVec

	ingestTotal    *prometheus.CounterVec
	ingestDuration *prometheus.HistogramVec
	ingestInFlight prometheus.Gauge
}

func NewRetrievalMetrics(service string) *RetrievalMetrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paa",
			Subsystem: "retrieval",
			Name:      "requests_total",
			Help:      "Total retrieval requests by department and outcome.",
		},
		[]string{"service", "department", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paa",
			Subsystem: "retrieval",
			Name:      "duration_seconds",
			Help:      "Retrieval pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "department"},
	)
	contextChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paa",
			Subsystem: "retrieval",
			Name:      "context_chunks",
			Help:      "Distribution of final context chunks per successful request.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8},
		},
		[]string{"service", "department"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paa",
			Subsystem: "retrieval",
			Name:      "no_context_total",
			Help:      "Successful retrieval requests that produced no context.",
		},
		[]string{"service", "department"},
	)
	ingestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paa",
			Subsystem: "ingest",
			Name:      "documents_total",
			Help:      "Total processed documents by status.",
		},
		[]string{"service", "status"},
	)
	ingestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paa",
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Document processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	ingestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "paa",
			Subsystem: "ingest",
			Name:      "in_flight",
			Help:      "Number of in-flight document processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestsTotal,
		requestDuration,
		contextChunks,
		noContextTotal,
		ingestTotal,
		ingestDuration,
		ingestInFlight,
	)

	return &RetrievalMetrics{
		registry:        registry,
		service:         service,
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		contextChunks:   contextChunks,
		noContextTotal:  noContextTotal,
		ingestTotal:     ingestTotal,
		ingestDuration:  ingestDuration,
		ingestInFlight:  ingestInFlight,
	}
}

func (m *RetrievalMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// MustRegister adds extra collectors, such as the index size collector.
func (m *RetrievalMetrics) MustRegister(cs ...prometheus.Collector) {
	m.registry.MustRegister(cs...)
}

// ObserveRetrieval records one retrieval request. status is "ok" or an error code.
func (m *RetrievalMetrics) ObserveRetrieval(department, status string, chunks int, duration time.Duration) {
	if department == "" {
		department = "unknown"
	}
	m.requestsTotal.WithLabelValues(m.service, department, status).Inc()
	m.requestDuration.WithLabelValues(m.service, department).Observe(duration.Seconds())
	if status != "ok" {
		return
	}
	m.contextChunks.WithLabelValues(m.service, department).Observe(float64(chunks))
	if chunks == 0 {
		m.noContextTotal.WithLabelValues(m.service, department).Inc()
	}
}

func (m *RetrievalMetrics) StartDocument() {
	m.ingestInFlight.Inc()
}

func (m *RetrievalMetrics) FinishDocument(duration time.Duration, err error) {
	m.ingestInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.ingestTotal.WithLabelValues(m.service, status).Inc()
	m.ingestDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}
