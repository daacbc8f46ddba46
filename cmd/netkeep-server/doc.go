// Package main provides the entry point for netkeep-server.
//
// netkeep-server keeps a headless device reachable over Wi-Fi: it
// reconnects to saved networks and raises a fallback hotspot after a
// sustained outage. It also owns the XML settings store and serves the
// management API on a local Unix socket.
package main
