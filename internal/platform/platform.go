package platform

import (
	"context"

	"github.com/yndnr/netkeep-go/internal/core/domain"
)

// Platform drives the Wi-Fi hardware.
//
// Errors are domain.ErrCommandFailure or domain.ErrCommandTimeout.
// Callers bound each call with the context deadline.
type Platform interface {
	// Name identifies the implementation ("linux", "null").
	Name() string

	// EnsureHotspotProfile creates the hotspot connection profile if it
	// does not exist yet.
	EnsureHotspotProfile(ctx context.Context, ssid, password string) error

	// EnableHotspot brings the hotspot profile up.
	EnableHotspot(ctx context.Context) error

	// DisableHotspot brings the hotspot profile down.
	DisableHotspot(ctx context.Context) error

	// HotspotRunning reports whether the hotspot profile is active.
	HotspotRunning(ctx context.Context) (bool, error)

	// ChangeHotspotPassword sets a new WPA passphrase and restarts the
	// hotspot so it takes effect.
	ChangeHotspotPassword(ctx context.Context, password string) error

	// Connect joins a client network.
	Connect(ctx context.Context, ssid, password string) error

	// ActiveConnection probes the client link.
	ActiveConnection(ctx context.Context) (domain.Connection, error)

	// ScanRaw returns raw iwlist-style scan output.
	ScanRaw(ctx context.Context) (string, error)
}
