package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector adapts [Metrics] to the Prometheus scrape model. Callers mount
// it on their own registry; nothing is registered globally.
type Collector struct {
	source *Metrics
	descs  [idCount]*prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector describes the newcollector operation and its observable behavior.
func NewCollector(source *Metrics) *Collector {
	c := &Collector{source: source}
	for id := ID(0); id < idCount; id++ {
		c.descs[id] = prometheus.NewDesc(
			"authflow_"+names[id]+"_total",
			"Total "+names[id]+" flow outcomes.",
			nil, nil,
		)
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for id := ID(0); id < idCount; id++ {
		ch <- prometheus.MustNewConstMetric(
			c.descs[id],
			prometheus.CounterValue,
			float64(c.source.Value(id)),
		)
	}
}
