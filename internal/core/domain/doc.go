// Package domain defines the core domain models for NetKeep.
//
// Domain models are plain values without IO dependencies:
//
//   - SavedNetwork: stored Wi-Fi credential and its priority ordering
//   - ScanResult: a visible network after deduplication
//   - Connection: outcome of probing the client link
//   - HotspotState: the in-memory reconciliation accumulator
//   - Errors: the error taxonomy shared by every component
package domain
