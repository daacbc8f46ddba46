// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultLocalSocket     = "/run/netkeep/netkeep.sock"
	DefaultShutdownTimeout = 10 * time.Second

	DefaultSettingsPath  = "/var/lib/netkeep/settings.xml"
	DefaultFlushInterval = time.Second

	DefaultReconcileInterval    = 5 * time.Second
	DefaultMinCycleGap          = 60 * time.Second
	DefaultActivityQuiet        = 60 * time.Second
	DefaultHotspotAfter         = 240 * time.Second
	DefaultConnectTimeout       = 25 * time.Second
	DefaultManualConnectTimeout = 30 * time.Second
	DefaultCommandTimeout       = 15 * time.Second

	DefaultPlatformKind   = "auto"
	DefaultInterface      = "wlan0"
	DefaultHotspotProfile = "Hotspot"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Settings: SettingsSection{
			Path:          DefaultSettingsPath,
			FlushInterval: DefaultFlushInterval,
		},
		Reconcile: ReconcileSection{
			Interval:             DefaultReconcileInterval,
			MinCycleGap:          DefaultMinCycleGap,
			ActivityQuiet:        DefaultActivityQuiet,
			HotspotAfter:         DefaultHotspotAfter,
			ConnectTimeout:       DefaultConnectTimeout,
			ManualConnectTimeout: DefaultManualConnectTimeout,
			CommandTimeout:       DefaultCommandTimeout,
		},
		Platform: PlatformSection{
			Kind:           DefaultPlatformKind,
			Interface:      DefaultInterface,
			HotspotProfile: DefaultHotspotProfile,
			UseSudo:        true,
		},
		Server: ServerSection{
			Local: LocalConfig{
				Path:      DefaultLocalSocket,
				RateLimit: 50,
				Burst:     20,
			},
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
