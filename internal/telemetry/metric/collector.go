package metric

import "github.com/prometheus/client_golang/prometheus"

// Stats is a point-in-time view of daemon state.
type Stats struct {
	SecondsWithoutWifi float64
	HotspotActive      bool
	ClientConnected    bool
	SettingsDirty      bool
	SavedNetworks      int
}

// StatsSource supplies Stats at scrape time.
type StatsSource interface {
	Stats() Stats
}

// Collector reports gauges read from a StatsSource on every scrape.
type Collector struct {
	src StatsSource

	secondsWithoutWifi *prometheus.Desc
	hotspotActive      *prometheus.Desc
	clientConnected    *prometheus.Desc
	settingsDirty      *prometheus.Desc
	savedNetworks      *prometheus.Desc
}

// NewCollector creates a collector backed by src.
func NewCollector(src StatsSource) *Collector {
	return &Collector{
		src: src,
		secondsWithoutWifi: prometheus.NewDesc(namespace+"_reconcile_seconds_without_wifi",
			"Accumulated seconds without a client connection.", nil, nil),
		hotspotActive: prometheus.NewDesc(namespace+"_hotspot_active",
			"Whether the persisted hotspot flag is set.", nil, nil),
		clientConnected: prometheus.NewDesc(namespace+"_wifi_connected",
			"Whether the last reconcile found a client connection.", nil, nil),
		settingsDirty: prometheus.NewDesc(namespace+"_settings_dirty",
			"Whether settings have unflushed changes.", nil, nil),
		savedNetworks: prometheus.NewDesc(namespace+"_wifi_saved_networks",
			"Number of saved networks.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.secondsWithoutWifi
	ch <- c.hotspotActive
	ch <- c.clientConnected
	ch <- c.settingsDirty
	ch <- c.savedNetworks
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.secondsWithoutWifi, prometheus.GaugeValue, s.SecondsWithoutWifi)
	ch <- prometheus.MustNewConstMetric(c.hotspotActive, prometheus.GaugeValue, boolValue(s.HotspotActive))
	ch <- prometheus.MustNewConstMetric(c.clientConnected, prometheus.GaugeValue, boolValue(s.ClientConnected))
	ch <- prometheus.MustNewConstMetric(c.settingsDirty, prometheus.GaugeValue, boolValue(s.SettingsDirty))
	ch <- prometheus.MustNewConstMetric(c.savedNetworks, prometheus.GaugeValue, float64(s.SavedNetworks))
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
