// Package metrics holds the Prometheus collectors for storybrowser.
//
// Collectors are registered on a package-level registry rather than the
// global default one so tests can read them without interference, and so
// the /metrics endpoint only exposes what this program records.
//
// Request metrics (recorded by internal/hn):
//   - storybrowser_requests_total{endpoint, status} (Counter)
//   - storybrowser_request_duration_seconds{endpoint} (Histogram)
//   - storybrowser_errors_total{kind} (Counter): transport or parse
//
// Page metrics (recorded by internal/browser):
//   - storybrowser_page_loads_total{result} (Counter): ok or error
//   - storybrowser_stale_pages_total (Counter): results dropped by generation
//   - storybrowser_page_load_duration_seconds (Histogram)
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Endpoint labels.
const (
	EndpointListing = "listing"
	EndpointItem    = "item"
)

// Registry is the registry all storybrowser collectors live on.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	RequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "storybrowser_requests_total",
		Help: "Upstream HTTP requests by endpoint and status code",
	}, []string{"endpoint", "status"})

	RequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storybrowser_request_duration_seconds",
		Help:    "Upstream HTTP request duration by endpoint",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	ErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "storybrowser_errors_total",
		Help: "Upstream errors by kind (transport, parse)",
	}, []string{"kind"})

	PageLoadsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "storybrowser_page_loads_total",
		Help: "Completed page loads by result",
	}, []string{"result"})

	StalePagesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "storybrowser_stale_pages_total",
		Help: "Page results discarded because a newer page was requested",
	})

	PageLoadDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "storybrowser_page_load_duration_seconds",
		Help:    "Wall time to fetch every story on a page",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveRequest records one upstream request. status is 0 when no response
// was received.
func ObserveRequest(endpoint string, status int, dur time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RequestsTotal.WithLabelValues(endpoint, label).Inc()
	RequestDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
