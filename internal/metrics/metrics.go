// Package metrics collects and exposes Prometheus metrics for the ganging
// planner: per-pass counters, utilization distribution, and LAY occupancy.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/piwi3910/GangSheet/internal/model"
)

// Collector holds the Prometheus metrics for the planner. Each Collector
// owns its registry so independent instances never collide.
type Collector struct {
	registry *prometheus.Registry

	passesTotal    prometheus.Counter
	gangsCommitted prometheus.Counter
	tasksGanged    prometheus.Counter
	tasksUnplanned prometheus.Gauge
	utilization    prometheus.Histogram
	slotsOccupied  prometheus.Gauge
	slotsFree      prometheus.Gauge
}

// NewCollector creates and registers the planner metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		passesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gangsheet_passes_total",
			Help: "Total number of planning passes executed",
		}),
		gangsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gangsheet_gangs_committed_total",
			Help: "Total number of gangs committed to LAY columns",
		}),
		tasksGanged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gangsheet_tasks_ganged_total",
			Help: "Total number of tasks ganged across all passes",
		}),
		tasksUnplanned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gangsheet_tasks_unplanned",
			Help: "Number of tasks left unplanned after the most recent pass",
		}),
		utilization: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gangsheet_gang_utilization",
			Help:    "Sheet utilization of committed gangs",
			Buckets: []float64{0.90, 0.95, 0.97, 0.98, 0.99, 0.992, 0.994, 0.996, 0.998, 1.0},
		}),
		slotsOccupied: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gangsheet_lay_slots_occupied",
			Help: "Total occupied LAY column slots",
		}),
		slotsFree: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gangsheet_lay_slots_free",
			Help: "Total free LAY column slots",
		}),
	}

	c.registry.MustRegister(c.passesTotal)
	c.registry.MustRegister(c.gangsCommitted)
	c.registry.MustRegister(c.tasksGanged)
	c.registry.MustRegister(c.tasksUnplanned)
	c.registry.MustRegister(c.utilization)
	c.registry.MustRegister(c.slotsOccupied)
	c.registry.MustRegister(c.slotsFree)

	return c
}

// RecordPass records the outcome of one planning pass.
func (c *Collector) RecordPass(result model.PassResult) {
	c.passesTotal.Inc()
	c.gangsCommitted.Add(float64(len(result.Gangs)))
	c.tasksGanged.Add(float64(result.GangedCount()))
	c.tasksUnplanned.Set(float64(result.UnplannedCount()))

	for _, g := range result.Gangs {
		c.utilization.Observe(g.Utilization())
	}

	occupied, free := 0, 0
	for _, col := range result.Columns {
		occupied += col.Occupied
		free += col.Remaining()
	}
	c.slotsOccupied.Set(float64(occupied))
	c.slotsFree.Set(float64(free))
}

// Handler returns the HTTP handler exposing this collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
