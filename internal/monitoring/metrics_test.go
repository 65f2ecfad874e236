// internal/monitoring/metrics_test.go
package monitoring

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Collectors register on the default registry; one instance serves every
// test in the package.
var metrics = NewMetrics()

func TestRecordScrapePhase(t *testing.T) {
	metrics.RecordScrapePhase("house", "committee", 1.5, false)
	metrics.RecordScrapePhase("house", "committee", 0.5, true)

	if got := testutil.ToFloat64(metrics.pagesScraped.WithLabelValues("house", "committee")); got != 2 {
		t.Errorf("pages scraped = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.scrapeErrors.WithLabelValues("house", "committee")); got != 1 {
		t.Errorf("scrape errors = %v, want 1", got)
	}
}

func TestRecordFormat(t *testing.T) {
	metrics.RecordFormat("youtube", "embedded")
	metrics.RecordFormat("youtube", "embedded")
	metrics.RecordFormat("jwplayer", "javascript")

	if got := testutil.ToFloat64(metrics.formatsDetected.WithLabelValues("youtube", "embedded")); got != 2 {
		t.Errorf("youtube formats = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.formatsDetected.WithLabelValues("jwplayer", "javascript")); got != 1 {
		t.Errorf("jwplayer formats = %v, want 1", got)
	}
}

func TestRecordDBWrite(t *testing.T) {
	metrics.RecordDBWrite("committee", nil)
	metrics.RecordDBWrite("committee", errors.New("constraint violation"))

	if got := testutil.ToFloat64(metrics.dbWrites.WithLabelValues("committee")); got != 1 {
		t.Errorf("db writes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.dbWriteErrors); got != 1 {
		t.Errorf("db write errors = %v, want 1", got)
	}
}

func TestRecordHearings(t *testing.T) {
	metrics.RecordHearings("senate", 7)

	if got := testutil.ToFloat64(metrics.hearingsFound.WithLabelValues("senate")); got != 7 {
		t.Errorf("hearings found = %v, want 7", got)
	}
}
