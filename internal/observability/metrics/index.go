package metrics

import "github.com/prometheus/client_golang/prometheus"

// IndexCollector exports per-department chunk counts at scrape time.
type IndexCollector struct {
	sizes func() map[string]int
	desc  *prometheus.Desc
}

func NewIndexCollector(service string, sizes func() map[string]int) *IndexCollector {
	return &IndexCollector{
		sizes: sizes,
		desc: prometheus.NewDesc(
			"paa_index_chunks",
			"Number of indexed chunks per department.",
			[]string{"department"},
			prometheus.Labels{"service": service},
		),
	}
}

func (c *IndexCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *IndexCollector) Collect(ch chan<- prometheus.Metric) {
	for department, n := range c.sizes() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), department)
	}
}
