package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg              *prometheus.Registry
	SnapshotLoads    prometheus.Counter
	SnapshotLoadSec  prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	AnalyticsServed  prometheus.Counter
	AnalyticsSkipped prometheus.Counter
	ExportRows       prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	loads := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_snapshot_loads_total"})
	loadSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_snapshot_load_seconds",
		Buckets: prometheus.DefBuckets,
	})
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_cache_hits_total"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_cache_misses_total"})
	served := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_analytics_served_total"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_analytics_skipped_total"})
	exportRows := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_export_rows_total"})

	r.MustRegister(loads, loadSec, hits, misses, served, skipped, exportRows)
	return &Registry{
		reg:              r,
		SnapshotLoads:    loads,
		SnapshotLoadSec:  loadSec,
		CacheHits:        hits,
		CacheMisses:      misses,
		AnalyticsServed:  served,
		AnalyticsSkipped: skipped,
		ExportRows:       exportRows,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
