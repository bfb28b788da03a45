// Package observe registers the service's prometheus collectors.
package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rows attempted by batch import jobs, partitioned by outcome
	// ("inserted" or "error").
	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelyard_import_rows_total",
			Help: "Rows attempted by batch import jobs, by outcome.",
		},
		[]string{"outcome"},
	)

	// maintenance applied to project metric summaries, partitioned by
	// kind ("incremental" on writes, "rescan" on removals).
	SummaryUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelyard_metric_summary_updates_total",
			Help: "Maintenance operations applied to project metric summaries.",
		},
		[]string{"kind"},
	)
)
