package domain

import (
	"sort"
	"time"
)

// SavedNetwork is a stored Wi-Fi credential.
type SavedNetwork struct {
	SSID     string `json:"ssid"`
	Password string `json:"password,omitempty"`
	// Priority orders connection attempts, lower first. Nil sorts last.
	Priority *int `json:"priority,omitempty"`
}

// HasPriority reports whether the entry carries an explicit priority.
func (n SavedNetwork) HasPriority() bool {
	return n.Priority != nil
}

// Usable reports whether the entry has enough data to attempt a connection.
func (n SavedNetwork) Usable() bool {
	return n.SSID != "" && n.Password != ""
}

// SortSavedNetworks orders networks in place: prioritized entries first in
// ascending priority, then entries without a priority. Ties keep their
// original relative order.
func SortSavedNetworks(nets []SavedNetwork) {
	sort.SliceStable(nets, func(i, j int) bool {
		a, b := nets[i], nets[j]
		switch {
		case a.HasPriority() && b.HasPriority():
			return *a.Priority < *b.Priority
		case a.HasPriority():
			return true
		default:
			return false
		}
	})
}

// IntPtr is a convenience for building optional priorities.
func IntPtr(v int) *int {
	return &v
}

// ScanResult is one visible network, deduplicated by SSID.
type ScanResult struct {
	SSID          string `json:"ssid"`
	Address       string `json:"address"`
	SignalPercent int    `json:"signal_percent"`
	SignalDBm     int    `json:"signal_dbm"`
}

// SignalPercent converts a dBm reading into a 0-100 quality figure.
func SignalPercent(dbm int) int {
	p := 2 * (dbm + 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Connection is the result of probing the active client link.
type Connection struct {
	Connected bool   `json:"connected"`
	SSID      string `json:"ssid,omitempty"`
	BSSID     string `json:"bssid,omitempty"`
	// Reason explains a negative probe ("running as hotspot", ...).
	Reason string `json:"reason,omitempty"`
}

// HotspotState is the process-lifetime reconciliation accumulator.
// It is never persisted.
type HotspotState struct {
	LastReconcileAt    time.Time `json:"last_reconcile_at"`
	LastCheckAt        time.Time `json:"last_check_at"`
	SecondsWithoutWifi float64   `json:"seconds_without_wifi"`
}

// ConnectivityState is derived on demand and never stored.
type ConnectivityState string

const (
	StateClientConnected          ConnectivityState = "CLIENT_CONNECTED"
	StateDisconnectedAccumulating ConnectivityState = "DISCONNECTED_ACCUMULATING"
	StateHotspotActive            ConnectivityState = "HOTSPOT_ACTIVE"
)
