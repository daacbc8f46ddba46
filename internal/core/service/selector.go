package service

import (
	"context"
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/platform"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
)

// DefaultConnectTimeout bounds one saved-network attempt.
const DefaultConnectTimeout = 25 * time.Second

// SavedNetworkSelector joins the first reachable saved network.
type SavedNetworkSelector struct {
	platform platform.Platform
	settings SettingsRepository
	scanner  *NetworkScanner
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metric.Registry
}

// NewSavedNetworkSelector creates a SavedNetworkSelector. A zero timeout
// uses DefaultConnectTimeout.
func NewSavedNetworkSelector(p platform.Platform, s SettingsRepository, scanner *NetworkScanner,
	timeout time.Duration, logger *slog.Logger, metrics *metric.Registry) *SavedNetworkSelector {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SavedNetworkSelector{
		platform: p,
		settings: s,
		scanner:  scanner,
		timeout:  timeout,
		logger:   logger,
		metrics:  metric.OrNew(metrics),
	}
}

// TryConnect attempts saved networks in order and stops at the first
// success, clearing the hotspot flag. Entries without an SSID or password
// are skipped. When visible is non-empty, networks not in it are skipped.
// The hotspot is brought down before every attempt.
func (s *SavedNetworkSelector) TryConnect(ctx context.Context, saved []domain.SavedNetwork, visible mapset.Set[string]) (string, bool) {
	for _, n := range saved {
		if !n.Usable() {
			continue
		}
		if visible != nil && visible.Cardinality() > 0 && !visible.Contains(n.SSID) {
			s.logger.Debug("saved network not visible", "ssid", n.SSID)
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", false
		}

		s.logger.Info("trying saved network", "ssid", n.SSID)
		if err := s.platform.DisableHotspot(ctx); err != nil {
			s.logger.Warn("failed to disable hotspot", "error", err)
			s.metrics.CommandFailures.WithLabelValues("disable_hotspot").Inc()
		}

		if err := s.connect(ctx, n); err != nil {
			s.logger.Warn("saved network connection failed", "ssid", n.SSID, "error", err)
			s.metrics.ConnectAttempts.WithLabelValues("failure").Inc()
			continue
		}

		s.metrics.ConnectAttempts.WithLabelValues("success").Inc()
		if err := setHotspotFlag(s.settings, false); err != nil {
			s.logger.Warn("failed to clear hotspot flag", "error", err)
		}
		s.logger.Info("connected to saved network", "ssid", n.SSID)
		return n.SSID, true
	}
	return "", false
}

// ConnectSaved runs TryConnect over the stored list and the current scan.
func (s *SavedNetworkSelector) ConnectSaved(ctx context.Context) (string, bool) {
	saved := s.settings.SavedNetworks()
	if len(saved) == 0 {
		return "", false
	}
	var visible mapset.Set[string]
	if s.scanner != nil {
		visible = s.scanner.VisibleSSIDs(ctx)
	}
	return s.TryConnect(ctx, saved, visible)
}

func (s *SavedNetworkSelector) connect(ctx context.Context, n domain.SavedNetwork) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.platform.Connect(ctx, n.SSID, n.Password)
}
