// Package service provides the connectivity services for NetKeep.
//
// This package contains:
//
//   - NetworkScanner: parses and deduplicates visible networks
//   - SavedNetworkSelector: joins the first reachable saved network
//   - ConnectivityManager: arbitrates between the client link and the
//     fallback hotspot on every reconcile tick
//   - ActivityTracker: records user activity that postpones reconciling
//
// Services are synchronous and hold no locks. The daemon serializes every
// call, so state such as the no-Wi-Fi accumulator is plain fields.
package service
