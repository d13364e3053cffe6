// Package metrics exports engine statistics in the Prometheus exposition
// format.
//
// The CLI is short lived, so metrics are not served over HTTP. Instead a
// snapshot is written to a textfile that node_exporter's textfile collector
// can pick up.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aman-CERP/triesearch/pkg/triesearch"
)

const namespace = "triesearch"

// StatsSource is anything that can report engine statistics.
// Both *triesearch.Engine and *triesearch.Locked satisfy it.
type StatsSource interface {
	Stats() triesearch.Stats
}

// Collector turns a StatsSource into Prometheus metrics on every scrape.
type Collector struct {
	src    StatsSource
	labels prometheus.Labels

	records       *prometheus.Desc
	keys          *prometheus.Desc
	nodes         *prometheus.Desc
	cacheEnabled  *prometheus.Desc
	cacheCapacity *prometheus.Desc
	cacheEntries  *prometheus.Desc
	cacheHits     *prometheus.Desc
	cacheMisses   *prometheus.Desc
}

// NewCollector returns a collector over src. constLabels are attached to
// every metric, e.g. {"dataset": "people"}.
func NewCollector(src StatsSource, constLabels prometheus.Labels) *Collector {
	desc := func(subsystem, name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, name),
			help, nil, constLabels,
		)
	}
	return &Collector{
		src:           src,
		labels:        constLabels,
		records:       desc("index", "records", "Number of records in the index"),
		keys:          desc("index", "keys", "Number of distinct record keys"),
		nodes:         desc("index", "nodes", "Number of trie nodes"),
		cacheEnabled:  desc("cache", "enabled", "1 when the query cache is enabled"),
		cacheCapacity: desc("cache", "capacity", "Maximum number of cached queries"),
		cacheEntries:  desc("cache", "entries", "Number of cached queries"),
		cacheHits:     desc("cache", "hits_total", "Query cache hits"),
		cacheMisses:   desc("cache", "misses_total", "Query cache misses"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.records, c.keys, c.nodes,
		c.cacheEnabled, c.cacheCapacity, c.cacheEntries, c.cacheHits, c.cacheMisses,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}

	gauge(c.records, float64(s.Records))
	gauge(c.keys, float64(s.Keys))
	gauge(c.nodes, float64(s.Nodes))

	enabled := 0.0
	if s.Cache.Enabled {
		enabled = 1
	}
	gauge(c.cacheEnabled, enabled)
	gauge(c.cacheCapacity, float64(s.Cache.Capacity))
	gauge(c.cacheEntries, float64(s.Cache.Len))
	counter(c.cacheHits, float64(s.Cache.Hits))
	counter(c.cacheMisses, float64(s.Cache.Misses))
}

// WriteTextfile registers a collector over src in a fresh registry and
// writes its metrics to path. The write goes through a temp file and a
// rename, so a scraper never sees a partial file.
func WriteTextfile(path string, src StatsSource, constLabels prometheus.Labels) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(src, constLabels)); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
