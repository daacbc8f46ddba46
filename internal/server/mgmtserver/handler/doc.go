// Package handler provides HTTP request handlers for the NetKeep
// management API.
//
// Routes:
//
//	GET    /health
//	GET    /v1/status
//	GET    /v1/wifi/scan
//	GET    /v1/wifi/saved
//	POST   /v1/wifi/saved
//	DELETE /v1/wifi/saved/{ssid}
//	POST   /v1/wifi/saved/connect
//	POST   /v1/wifi/connect
//	POST   /v1/wifi/disconnect
//	POST   /v1/hotspot/password
//	GET    /v1/settings?path=a.b
//	PUT    /v1/settings
//	GET    /v1/settings/dump
//	POST   /v1/settings/reset
//	POST   /v1/activity
//	GET    /metrics
package handler
