// Package metrics exposes the Prometheus instruments shared across the
// scrape pipeline. All collectors register on the default registry and are
// served by the HTTP layer under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScenariosTotal counts scenario outcomes by result
	ScenariosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalscraper_scenarios_total",
		Help: "Scrape scenarios processed, labelled by result.",
	}, []string{"result"})

	// RecordsScraped counts listing records extracted
	RecordsScraped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentalscraper_records_scraped_total",
		Help: "Listing records extracted across all runs.",
	})

	// DetailVisits counts deal-button detail visits by result
	DetailVisits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalscraper_detail_visits_total",
		Help: "Detail page visits, labelled by result.",
	}, []string{"result"})

	// ScenarioDuration observes wall time per scenario
	ScenarioDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rentalscraper_scenario_duration_seconds",
		Help:    "Wall-clock duration of one scrape scenario.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// PublishTotal counts record publishes by result
	PublishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalscraper_publish_total",
		Help: "Record publishes to the stream, labelled by result.",
	}, []string{"result"})
)

// Scenario result label values
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultSkipped   = "skipped"
	ResultCancelled = "cancelled"
)
