// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics for scrape runs and the
// stats API.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one process. Collectors register on
// the default registry, so construct it once.
type Metrics struct {
	pagesScraped    *prometheus.CounterVec
	scrapeErrors    *prometheus.CounterVec
	scrapeDuration  *prometheus.HistogramVec
	formatsDetected *prometheus.CounterVec
	hearingsFound   *prometheus.CounterVec
	dbWrites        *prometheus.CounterVec
	dbWriteErrors   prometheus.Counter
}

const namespace = "congressvideo"

// NewMetrics registers and returns the process metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		pagesScraped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pages_scraped_total",
				Help:      "Pages fetched, by chamber and scrape type",
			},
			[]string{"chamber", "scrape_type"},
		),
		scrapeErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scrape_errors_total",
				Help:      "Failed scrape phases, by chamber and scrape type",
			},
			[]string{"chamber", "scrape_type"},
		),
		scrapeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scrape_duration_seconds",
				Help:      "Duration of scrape phases in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"chamber", "scrape_type"},
		),
		formatsDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "video_formats_detected_total",
				Help:      "Video formats detected, by platform and player type",
			},
			[]string{"platform", "player_type"},
		),
		hearingsFound: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hearings_found_total",
				Help:      "Hearings discovered, by chamber",
			},
			[]string{"chamber"},
		),
		dbWrites: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_writes_total",
				Help:      "Rows written to the catalog, by entity",
			},
			[]string{"entity"},
		),
		dbWriteErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_write_errors_total",
				Help:      "Failed catalog writes",
			},
		),
	}
}

// RecordScrapePhase counts one scrape phase with its outcome and timing.
func (m *Metrics) RecordScrapePhase(chamber, scrapeType string, seconds float64, failed bool) {
	m.pagesScraped.WithLabelValues(chamber, scrapeType).Inc()
	m.scrapeDuration.WithLabelValues(chamber, scrapeType).Observe(seconds)
	if failed {
		m.scrapeErrors.WithLabelValues(chamber, scrapeType).Inc()
	}
}

// RecordFormat counts one detected video format.
func (m *Metrics) RecordFormat(platform, playerType string) {
	m.formatsDetected.WithLabelValues(platform, playerType).Inc()
}

// RecordHearings counts hearings discovered for a chamber.
func (m *Metrics) RecordHearings(chamber string, n int) {
	m.hearingsFound.WithLabelValues(chamber).Add(float64(n))
}

// RecordDBWrite counts one catalog write.
func (m *Metrics) RecordDBWrite(entity string, err error) {
	if err != nil {
		m.dbWriteErrors.Inc()
		return
	}
	m.dbWrites.WithLabelValues(entity).Inc()
}

// Handler returns the /metrics handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
