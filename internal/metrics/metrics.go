package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"searchlog/internal/models"
)

// maxTermLabel bounds the term label, in runes.
const maxTermLabel = 32

var (
	ingestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searchlog_ingest_total",
			Help: "Total logged searches by ingestion outcome",
		},
		[]string{"outcome"},
	)

	sweepDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "searchlog_sweep_deleted_total",
		Help: "Total records removed by consolidation sweeps",
	})

	sweepFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "searchlog_sweep_failed_total",
		Help: "Total subsumed records a consolidation sweep failed to remove",
	})

	cacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searchlog_cache_requests_total",
			Help: "Cached view reads by result",
		},
		[]string{"view", "result"},
	)

	recordsDesc = prometheus.NewDesc(
		"searchlog_records",
		"Number of stored search records",
		nil,
		nil,
	)

	topTermDesc = prometheus.NewDesc(
		"searchlog_top_term_count",
		"Search count of the globally most frequent terms. The term label is raw client search text, truncated; restrict access to this endpoint.",
		[]string{"term"},
		nil,
	)
)

// Source is what the collector reads on each scrape.
type Source interface {
	MostFrequentGlobal(ctx context.Context) ([]models.SearchRecord, error)
	RecordCount(ctx context.Context) (int64, error)
}

// TermCollector is a custom Prometheus collector that reads record totals
// and the top global terms on each scrape.
type TermCollector struct {
	source Source
}

// NewTermCollector creates a collector over source.
func NewTermCollector(source Source) *TermCollector {
	return &TermCollector{source: source}
}

// Describe sends the metric descriptors to the channel.
func (c *TermCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- recordsDesc
	ch <- topTermDesc
}

// Collect queries the source and emits gauges. The top-term view is served
// from the global cache, so scrapes do not add database load.
func (c *TermCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	if n, err := c.source.RecordCount(ctx); err != nil {
		slog.Error("failed to collect record count", "error", err)
	} else {
		ch <- prometheus.MustNewConstMetric(recordsDesc, prometheus.GaugeValue, float64(n))
	}

	top, err := c.source.MostFrequentGlobal(ctx)
	if err != nil {
		slog.Error("failed to collect top terms", "error", err)
		return
	}
	seen := make(map[string]bool, len(top))
	for _, rec := range top {
		// The same term can be stored once per origin, and truncation can
		// collapse distinct terms.
		label := termLabel(rec.Term)
		if seen[label] {
			continue
		}
		seen[label] = true
		ch <- prometheus.MustNewConstMetric(topTermDesc, prometheus.GaugeValue, float64(rec.Count), label)
	}
}

// termLabel shortens a search term for use as a label value.
func termLabel(term string) string {
	runes := []rune(term)
	if len(runes) <= maxTermLabel {
		return term
	}
	return string(runes[:maxTermLabel]) + "…"
}

var initOnce sync.Once

// Init registers the counters and the term collector with reg.
// Must be called once at startup; later calls are no-ops.
func Init(reg prometheus.Registerer, source Source) {
	initOnce.Do(func() {
		reg.MustRegister(ingestTotal, sweepDeletedTotal, sweepFailedTotal, cacheTotal)
		reg.MustRegister(NewTermCollector(source))
	})
}

// RecordIngest counts one logged search by outcome.
func RecordIngest(outcome string) {
	ingestTotal.WithLabelValues(outcome).Inc()
}

// RecordSweep counts the result of one consolidation sweep.
func RecordSweep(deleted, failed int) {
	sweepDeletedTotal.Add(float64(deleted))
	sweepFailedTotal.Add(float64(failed))
}

// RecordCache counts a cached view read.
func RecordCache(view string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheTotal.WithLabelValues(view, result).Inc()
}
