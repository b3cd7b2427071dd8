// Package metrics exposes prometheus counters for corpus loading and
// dataset filtering.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "arxivset"

// Collector holds the arxivset counters. A nil *Collector is valid and
// records nothing, so callers need not guard every call.
type Collector struct {
	decoded     prometheus.Counter
	discarded   prometheus.Counter
	yielded     prometheus.Counter
	rowsBuilt   prometheus.Counter
	evaluations *prometheus.CounterVec
}

// New creates the counters and registers them with reg. A nil reg creates
// unregistered counters.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		decoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_decoded_total",
			Help:      "Source lines decoded into records.",
		}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_discarded_total",
			Help:      "Records discarded by the load transform.",
		}),
		yielded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_yielded_total",
			Help:      "Records yielded by the record stream.",
		}),
		rowsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_built_total",
			Help:      "Rows placed into encoded tables.",
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_evaluations_total",
			Help:      "Rows evaluated by criterion filters, by combinator.",
		}, []string{"kind"}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.decoded, c.discarded, c.yielded, c.rowsBuilt, c.evaluations} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Decoded counts one decoded record.
func (c *Collector) Decoded() {
	if c != nil {
		c.decoded.Inc()
	}
}

// Discarded counts one record dropped by the transform.
func (c *Collector) Discarded() {
	if c != nil {
		c.discarded.Inc()
	}
}

// Yielded counts one record handed to the table builder.
func (c *Collector) Yielded() {
	if c != nil {
		c.yielded.Inc()
	}
}

// RowsBuilt adds n built rows.
func (c *Collector) RowsBuilt(n int) {
	if c != nil {
		c.rowsBuilt.Add(float64(n))
	}
}

// FilterEvaluated adds n rows evaluated by a criterion of the given kind.
func (c *Collector) FilterEvaluated(kind string, n int) {
	if c != nil {
		c.evaluations.WithLabelValues(kind).Add(float64(n))
	}
}
