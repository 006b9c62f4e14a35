package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RowsLoaded     *prometheus.CounterVec
	GeocodeResults *prometheus.CounterVec
	APIErrors      prometheus.Counter
	RequestSeconds *prometheus.HistogramVec
	ActiveWorkers  prometheus.Gauge
	QuerySeconds   *prometheus.HistogramVec
	HTTPRequests   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RowsLoaded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_rows_loaded_total",
			Help: "Total number of dataset rows loaded, by dataset and outcome.",
		}, []string{"dataset", "status"}),
		GeocodeResults: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_geocoded_rows_total",
			Help: "Total number of rows sent to the geocoding provider, by outcome.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "meridian_geocoding_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meridian_geocoding_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "meridian_geocoding_active_workers",
			Help: "Current number of workers geocoding rows.",
		}),
		QuerySeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meridian_query_duration_seconds",
			Help:    "Duration of match, coverage and summary queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_http_requests_total",
			Help: "Total number of HTTP API requests, by route and status code.",
		}, []string{"route", "code"}),
	}
}
