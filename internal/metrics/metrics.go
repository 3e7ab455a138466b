// Package metrics exposes Prometheus collectors for the court directory crawler.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	crawlerSourcesTotal        *prometheus.CounterVec
	crawlerBytesTotal          *prometheus.CounterVec
	crawlerNamesTotal          *prometheus.CounterVec
	crawlerFailuresTotal       *prometheus.CounterVec
	crawlerOutputFilesTotal    *prometheus.CounterVec
	crawlerPauseSeconds        prometheus.Histogram
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		crawlerSourcesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtcrawler_sources_total",
				Help: "Total number of source URLs processed, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		crawlerBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtcrawler_bytes_total",
				Help: "Total number of bytes fetched, labeled by site.",
			},
			[]string{"site"},
		)

		crawlerNamesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtcrawler_names_total",
				Help: "Total number of canonical facility names extracted, labeled by site.",
			},
			[]string{"site"},
		)

		crawlerFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtcrawler_failures_total",
				Help: "Total number of failed sources, labeled by reason.",
			},
			[]string{"reason"},
		)

		crawlerOutputFilesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtcrawler_output_files_total",
				Help: "Total number of output files written, labeled by kind.",
			},
			[]string{"kind"},
		)

		crawlerPauseSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "courtcrawler_pause_seconds",
				Help:    "Histogram of inter-request pause durations.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSource records a processed source URL.
func ObserveSource(site string, status string, bytesFetched int) {
	Init()
	sanitizedSite := SanitizeSite(site)
	crawlerSourcesTotal.WithLabelValues(sanitizedSite, status).Inc()
	if bytesFetched > 0 {
		crawlerBytesTotal.WithLabelValues(sanitizedSite).Add(float64(bytesFetched))
	}
}

// ObserveNames adds n extracted names for site.
func ObserveNames(site string, n int) {
	Init()
	if n <= 0 {
		return
	}
	crawlerNamesTotal.WithLabelValues(SanitizeSite(site)).Add(float64(n))
}

// ObserveFailure increments the failure counter for reason.
func ObserveFailure(reason string) {
	Init()
	crawlerFailuresTotal.WithLabelValues(reason).Inc()
}

// ObserveOutputFile increments the output file counter for kind.
func ObserveOutputFile(kind string) {
	Init()
	crawlerOutputFilesTotal.WithLabelValues(kind).Inc()
}

// ObservePause records an inter-request pause.
func ObservePause(duration time.Duration) {
	Init()
	crawlerPauseSeconds.Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
