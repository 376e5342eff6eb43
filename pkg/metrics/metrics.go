// Package metrics exposes batch counters in the Prometheus text format.
// A batch job does not live long enough to be scraped, so the registry is
// written to a node-exporter textfile instead.
package metrics

import (
	"time"

	"github.com/de-tools/fleximart/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
)

type Registry struct {
	reg        *prometheus.Registry
	Rows       *prometheus.GaugeVec
	Orders     prometheus.Gauge
	OrderItems prometheus.Gauge
	Duration   prometheus.Gauge
	LastRun    prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fleximart_rows",
		Help: "Rows affected by each quality rule in the last batch.",
	}, []string{"table", "counter"})
	orders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleximart_orders_derived",
		Help: "Orders derived from the last batch.",
	})
	items := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleximart_order_items_derived",
		Help: "Order items derived from the last batch.",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleximart_batch_duration_seconds",
		Help: "Wall time of the last successful batch.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleximart_last_success_timestamp_seconds",
		Help: "Unix time the last successful batch finished.",
	})

	r.MustRegister(rows, orders, items, duration, lastRun)
	return &Registry{
		reg:        r,
		Rows:       rows,
		Orders:     orders,
		OrderItems: items,
		Duration:   duration,
		LastRun:    lastRun,
	}
}

// ObserveCounters records every counter of one table transform.
func (r *Registry) ObserveCounters(c domain.QualityCounters) {
	r.Rows.WithLabelValues(c.Table, "processed").Set(float64(c.Processed))
	r.Rows.WithLabelValues(c.Table, "duplicates_removed").Set(float64(c.DuplicatesRemoved))
	r.Rows.WithLabelValues(c.Table, "loaded").Set(float64(c.Loaded))
	for column, n := range c.MissingRemoved {
		r.Rows.WithLabelValues(c.Table, "missing_"+column+"_removed").Set(float64(n))
	}
	for column, n := range c.MissingFilled {
		r.Rows.WithLabelValues(c.Table, "missing_"+column+"_filled").Set(float64(n))
	}
}

func (r *Registry) ObserveDerivation(orders, items int) {
	r.Orders.Set(float64(orders))
	r.OrderItems.Set(float64(items))
}

func (r *Registry) ObserveCompletion(started, finished time.Time) {
	r.Duration.Set(finished.Sub(started).Seconds())
	r.LastRun.Set(float64(finished.Unix()))
}

func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile atomically replaces path with the current metric values.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
