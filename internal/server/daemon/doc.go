// Package daemon owns the runtime state of netkeep-server.
//
// App bundles the settings store, the platform backend and the
// connectivity services behind one mutex. The tick loop and the
// management API both go through App, so the store and the reconcile
// accumulator are only ever touched by one goroutine at a time.
package daemon
