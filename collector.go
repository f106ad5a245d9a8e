package safemem

import "github.com/prometheus/client_golang/prometheus"

// trackerCollector exports a Tracker's counters as Prometheus metrics.
type trackerCollector struct {
	tracker *Tracker

	allocs       *prometheus.Desc
	frees        *prometheus.Desc
	failedAllocs *prometheus.Desc
	doubleFrees  *prometheus.Desc
	live         *prometheus.Desc
	bytesInUse   *prometheus.Desc
	peakBytes    *prometheus.Desc
}

// NewCollector returns a prometheus.Collector reading t on every scrape.
// Metric names are prefixed with namespace when it is non-empty.
func NewCollector(namespace string, t *Tracker) prometheus.Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "tracker", n)
	}
	return &trackerCollector{
		tracker:      t,
		allocs:       prometheus.NewDesc(name("allocations_total"), "Successful storage grants.", nil, nil),
		frees:        prometheus.NewDesc(name("frees_total"), "Successful storage frees.", nil, nil),
		failedAllocs: prometheus.NewDesc(name("failed_allocations_total"), "Refused storage grants.", nil, nil),
		doubleFrees:  prometheus.NewDesc(name("double_frees_total"), "Rejected frees of handles that were not live.", nil, nil),
		live:         prometheus.NewDesc(name("live_handles"), "Outstanding storage grants.", nil, nil),
		bytesInUse:   prometheus.NewDesc(name("bytes_in_use"), "Bytes currently granted.", nil, nil),
		peakBytes:    prometheus.NewDesc(name("peak_bytes"), "High-water mark of bytes granted.", nil, nil),
	}
}

func (c *trackerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocs
	ch <- c.frees
	ch <- c.failedAllocs
	ch <- c.doubleFrees
	ch <- c.live
	ch <- c.bytesInUse
	ch <- c.peakBytes
}

func (c *trackerCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.tracker.Metrics()
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(m.Frees))
	ch <- prometheus.MustNewConstMetric(c.failedAllocs, prometheus.CounterValue, float64(m.FailedAllocs))
	ch <- prometheus.MustNewConstMetric(c.doubleFrees, prometheus.CounterValue, float64(m.DoubleFrees))
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(m.Live))
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(m.BytesInUse))
	ch <- prometheus.MustNewConstMetric(c.peakBytes, prometheus.GaugeValue, float64(m.PeakBytes))
}
