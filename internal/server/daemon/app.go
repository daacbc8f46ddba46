package daemon

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raulk/clock"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/core/service"
	"github.com/yndnr/netkeep-go/internal/infra/buildinfo"
	"github.com/yndnr/netkeep-go/internal/platform"
	"github.com/yndnr/netkeep-go/internal/storage/settings"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
)

// DefaultInterval is the tick period of the reconcile loop.
const DefaultInterval = 5 * time.Second

// Config configures an App.
type Config struct {
	// Interval is the tick period.
	Interval time.Duration

	// Connectivity tunes the reconcile loop.
	Connectivity service.ConnectivityConfig

	// ConnectTimeout bounds one saved-network attempt.
	ConnectTimeout time.Duration
}

// Option configures optional App collaborators.
type Option func(*App)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(a *App) { a.metrics = m }
}

// WithHostInfo replaces the host information source.
func WithHostInfo(fn func(context.Context) (*HostInfo, error)) Option {
	return func(a *App) { a.hostInfo = fn }
}

// App is the explicit application context of the daemon.
type App struct {
	mu sync.Mutex

	cfg      Config
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metric.Registry
	hostInfo func(context.Context) (*HostInfo, error)

	store    *settings.Store
	platform platform.Platform
	activity *service.ActivityTracker
	scanner  *service.NetworkScanner
	selector *service.SavedNetworkSelector
	manager  *service.ConnectivityManager

	startedAt   time.Time
	lastOutcome service.Outcome

	running  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New wires the connectivity services around store and p.
func New(cfg Config, store *settings.Store, p platform.Platform, opts ...Option) *App {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	a := &App{
		cfg:      cfg,
		clock:    clock.New(),
		logger:   slog.Default(),
		hostInfo: ReadHostInfo,
		store:    store,
		platform: p,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.metrics = metric.OrNew(a.metrics)

	a.activity = service.NewActivityTracker(a.clock)
	a.scanner = service.NewNetworkScanner(p, a.logger)
	a.selector = service.NewSavedNetworkSelector(p, store, a.scanner, cfg.ConnectTimeout, a.logger, a.metrics)
	a.manager = service.NewConnectivityManager(cfg.Connectivity, p, store, a.selector, a.activity, a.logger, a.metrics)
	a.startedAt = a.clock.Now()

	a.metrics.MustRegister(metric.NewCollector(a))
	return a
}

// ============================================================================
// Lifecycle
// ============================================================================

// Startup prepares the hotspot profile and restores a persisted hotspot.
func (a *App) Startup(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.manager.Startup(ctx)
}

// Tick runs one reconcile step followed by a deferred settings flush.
func (a *App) Tick(ctx context.Context) service.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store.ConsumeReset() {
		a.logger.Info("settings were reset, reapplying hotspot profile")
		if err := a.manager.Startup(ctx); err != nil {
			a.logger.Warn("startup after reset failed", "error", err)
		}
	}

	out := a.manager.Reconcile(ctx, a.clock.Now())
	a.lastOutcome = out

	if _, err := a.store.SaveDeferred(); err != nil {
		a.logger.Warn("deferred settings flush failed", "error", err)
	}
	return out
}

// Run ticks every Interval until ctx is done or Stop is called.
func (a *App) Run(ctx context.Context) {
	a.running.Store(true)
	defer close(a.done)

	ticker := a.clock.Ticker(a.cfg.Interval)
	defer ticker.Stop()

	a.logger.Info("reconcile loop started", "interval", a.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("reconcile loop stopped", "reason", ctx.Err())
			return
		case <-a.stop:
			a.logger.Info("reconcile loop stopped")
			return
		case <-ticker.C:
			a.Tick(ctx)
		}
	}
}

// Stop ends Run and waits for the loop to exit.
func (a *App) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() { close(a.stop) })
	if !a.running.Load() {
		return nil
	}
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush writes pending settings changes.
func (a *App) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.SaveImmediate()
}

// ============================================================================
// Wi-Fi
// ============================================================================

// Scan lists visible networks.
func (a *App) Scan(ctx context.Context) ([]domain.ScanResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scanner.Scan(ctx)
}

// SavedNetworks lists saved networks in connection order without their
// passwords.
func (a *App) SavedNetworks() []domain.SavedNetwork {
	a.mu.Lock()
	defer a.mu.Unlock()

	nets := a.store.SavedNetworks()
	for i := range nets {
		nets[i].Password = ""
	}
	return nets
}

// AddSavedNetwork stores credentials for ssid.
func (a *App) AddSavedNetwork(ssid, password string, priority *int) error {
	if strings.TrimSpace(ssid) == "" {
		return domain.ErrMissingArgument.WithDetails("ssid is required")
	}
	if password == "" {
		return domain.ErrMissingArgument.WithDetails("password is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.AddSavedNetwork(ssid, password, priority)
}

// RemoveSavedNetwork deletes every entry for ssid.
func (a *App) RemoveSavedNetwork(ssid string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	removed, err := a.store.RemoveSavedNetwork(ssid)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNetworkNotFound.WithDetails(ssid)
	}
	return nil
}

// ConnectSaved joins the first reachable saved network.
func (a *App) ConnectSaved(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ssid, ok := a.selector.ConnectSaved(ctx)
	if !ok {
		return "", domain.ErrNoSavedNetwork
	}
	return ssid, nil
}

// Connect joins ssid, falling back to the hotspot on failure.
func (a *App) Connect(ctx context.Context, ssid, password string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.manager.ConnectTo(ctx, ssid, password)
}

// Disconnect switches to the hotspot.
func (a *App) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.manager.Disconnect(ctx, a.clock.Now())
}

// ChangeHotspotPassword applies and stores a new hotspot passphrase.
func (a *App) ChangeHotspotPassword(ctx context.Context, password string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.manager.ChangeHotspotPassword(ctx, password); err != nil {
		return err
	}
	return a.store.SaveImmediate()
}

// ============================================================================
// Settings
// ============================================================================

// SettingValue is either a leaf value or the child keys of a section.
type SettingValue struct {
	Path  string   `json:"path" yaml:"path"`
	Value *string  `json:"value,omitempty" yaml:"value,omitempty"`
	Keys  []string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

// GetSetting resolves a dotted path. An empty path lists the top-level
// keys.
func (a *App) GetSetting(path string) (SettingValue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	parts := settings.SplitPath(path)
	out := SettingValue{Path: strings.Join(parts, ".")}
	if v, ok := a.store.Get(parts...); ok {
		out.Value = &v
		return out, nil
	}
	if keys := a.store.Keys(parts...); keys != nil {
		out.Keys = keys
		return out, nil
	}
	return out, domain.ErrMissingData.WithDetails(out.Path)
}

// SetSetting stores value under a dotted path. The write is flushed by
// the next tick.
func (a *App) SetSetting(path string, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Set(settings.SplitPath(path), value)
}

// SettingsSnapshot returns every stored value keyed by dotted path.
// Saved networks are not included.
func (a *App) SettingsSnapshot() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Snapshot()
}

// ResetSettings restores the default template. The next tick reapplies
// the hotspot profile.
func (a *App) ResetSettings() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.ResetToDefault()
}

// ============================================================================
// Activity and status
// ============================================================================

// TouchActivity records user activity and returns its time.
func (a *App) TouchActivity() time.Time {
	a.activity.Touch()
	return a.activity.LastActivity()
}

// Status is the daemon snapshot served by the management API.
type Status struct {
	service.Status `yaml:",inline"`

	SettingsDirty     bool            `json:"settings_dirty" yaml:"settings_dirty"`
	SettingsLastFlush time.Time       `json:"settings_last_flush" yaml:"settings_last_flush"`
	SavedNetworks     int             `json:"saved_networks" yaml:"saved_networks"`
	LastOutcome       service.Outcome `json:"last_outcome" yaml:"last_outcome"`
	LastActivity      time.Time       `json:"last_activity" yaml:"last_activity"`
	StartedAt         time.Time       `json:"started_at" yaml:"started_at"`
	Host              *HostInfo       `json:"host,omitempty" yaml:"host,omitempty"`
	Build             buildinfo.Info  `json:"build" yaml:"build"`
}

// Status probes the platform and assembles a snapshot.
func (a *App) Status(ctx context.Context) Status {
	a.mu.Lock()
	st := Status{
		Status:            a.manager.Status(ctx),
		SettingsDirty:     a.store.Dirty(),
		SettingsLastFlush: a.store.LastFlush(),
		SavedNetworks:     len(a.store.SavedNetworks()),
		LastOutcome:       a.lastOutcome,
		LastActivity:      a.activity.LastActivity(),
		StartedAt:         a.startedAt,
		Build:             buildinfo.Get(),
	}
	a.mu.Unlock()

	host, err := a.hostInfo(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Debug("host info unavailable", "error", err)
	}
	st.Host = host
	return st
}

// Stats implements metric.StatsSource.
func (a *App) Stats() metric.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return metric.Stats{
		SecondsWithoutWifi: a.manager.State().SecondsWithoutWifi,
		HotspotActive:      a.manager.HotspotForced(),
		ClientConnected:    a.manager.LastConnection().Connected,
		SettingsDirty:      a.store.Dirty(),
		SavedNetworks:      len(a.store.SavedNetworks()),
	}
}
