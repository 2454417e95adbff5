package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion and geocoding Prometheus metrics.
var (
	IngestRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Ingestion gate runs by outcome",
		},
		[]string{"result"}, // "loaded" / "skipped" / "fetch_error" / "parse_error" / "store_error"
	)

	IngestRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_records_total",
			Help:      "Feed records seen by the ingestion gate",
		},
		[]string{"result"}, // "stored" / "rejected"
	)

	IngestFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_fetch_duration_seconds",
			Help:      "Feed download duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	StateVectorsStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state_vectors_stored",
			Help:      "State vectors stored by the last successful ingestion",
		},
	)

	GeocoderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocoder_requests_total",
			Help:      "Reverse geocoding requests by status",
		},
		[]string{"status"}, // "ok" / "empty" / "error"
	)

	GeocoderRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocoder_request_duration_seconds",
			Help:      "Reverse geocoding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	GeocodeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocode cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerTrackerOnce sync.Once

// RegisterTrackerMetrics registers ingestion and geocoding metrics.
// Safe to call more than once and from concurrent goroutines.
func RegisterTrackerMetrics() {
	registerTrackerOnce.Do(func() {
		prometheus.MustRegister(
			IngestRunsTotal,
			IngestRecordsTotal,
			IngestFetchDuration,
			StateVectorsStored,
			GeocoderRequestsTotal,
			GeocoderRequestDuration,
			GeocodeCacheTotal,
		)
	})
}
