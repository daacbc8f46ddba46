// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for netkeep-server.
type ServerConfig struct {
	Settings  SettingsSection  `koanf:"settings"`
	Reconcile ReconcileSection `koanf:"reconcile"`
	Platform  PlatformSection  `koanf:"platform"`
	Server    ServerSection    `koanf:"server"`
	Log       LogSection       `koanf:"log"`
}

// SettingsSection configures the XML settings store.
type SettingsSection struct {
	Path string `koanf:"path" validate:"required"`

	// DefaultPath overrides the embedded default template.
	DefaultPath string `koanf:"default_path" validate:"omitempty,file"`

	FlushInterval time.Duration `koanf:"flush_interval" validate:"gte=0"`
}

// ReconcileSection configures the client/hotspot arbitration loop.
type ReconcileSection struct {
	// Interval is the daemon tick period.
	Interval      time.Duration `koanf:"interval" validate:"gt=0"`
	MinCycleGap   time.Duration `koanf:"min_cycle_gap" validate:"gte=0"`
	ActivityQuiet time.Duration `koanf:"activity_quiet" validate:"gte=0"`
	HotspotAfter  time.Duration `koanf:"hotspot_after" validate:"gt=0"`

	ConnectTimeout       time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	ManualConnectTimeout time.Duration `koanf:"manual_connect_timeout" validate:"gt=0"`
	CommandTimeout       time.Duration `koanf:"command_timeout" validate:"gt=0"`
}

// PlatformSection selects the OS backend.
type PlatformSection struct {
	Kind           string `koanf:"kind" validate:"oneof=auto linux null"`
	Interface      string `koanf:"interface" validate:"required"`
	HotspotProfile string `koanf:"hotspot_profile" validate:"required"`
	UseSudo        bool   `koanf:"use_sudo"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Local LocalConfig `koanf:"local"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LocalConfig configures the management socket.
type LocalConfig struct {
	Path string `koanf:"path" validate:"required"`

	// RateLimit caps requests per second; zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	Burst     int     `koanf:"burst" validate:"gte=0"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text console"`
}
