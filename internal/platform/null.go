package platform

import (
	"context"

	"github.com/yndnr/netkeep-go/internal/core/domain"
)

// Null is a Platform for hosts without Wi-Fi tooling. Every action
// succeeds and the client link is always reported as connected, so the
// hotspot is never raised.
type Null struct{}

var _ Platform = Null{}

// Name implements Platform.
func (Null) Name() string { return "null" }

// EnsureHotspotProfile implements Platform.
func (Null) EnsureHotspotProfile(context.Context, string, string) error { return nil }

// EnableHotspot implements Platform.
func (Null) EnableHotspot(context.Context) error { return nil }

// DisableHotspot implements Platform.
func (Null) DisableHotspot(context.Context) error { return nil }

// HotspotRunning implements Platform.
func (Null) HotspotRunning(context.Context) (bool, error) { return false, nil }

// ChangeHotspotPassword implements Platform.
func (Null) ChangeHotspotPassword(context.Context, string) error { return nil }

// Connect implements Platform.
func (Null) Connect(context.Context, string, string) error { return nil }

// ActiveConnection implements Platform.
func (Null) ActiveConnection(context.Context) (domain.Connection, error) {
	return domain.Connection{Connected: true, Reason: "null platform"}, nil
}

// ScanRaw implements Platform.
func (Null) ScanRaw(context.Context) (string, error) { return "", nil }
