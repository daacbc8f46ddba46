package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/platform"
	"github.com/yndnr/netkeep-go/internal/storage/settings"
	"github.com/yndnr/netkeep-go/internal/telemetry/logger"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
)

// ConnectivityConfig tunes the reconcile loop.
type ConnectivityConfig struct {
	// MinCycleGap is the minimum time between full cycles.
	MinCycleGap time.Duration

	// ActivityQuiet is how long user activity postpones a cycle.
	ActivityQuiet time.Duration

	// HotspotAfter is how much accumulated time without Wi-Fi raises the
	// hotspot. The threshold must be exceeded, not merely reached.
	HotspotAfter time.Duration

	// ManualConnectTimeout bounds ConnectTo.
	ManualConnectTimeout time.Duration

	// CommandTimeout bounds hotspot toggles and probes.
	CommandTimeout time.Duration
}

// DefaultConnectivityConfig returns the stock timings.
func DefaultConnectivityConfig() ConnectivityConfig {
	return ConnectivityConfig{
		MinCycleGap:          60 * time.Second,
		ActivityQuiet:        60 * time.Second,
		HotspotAfter:         240 * time.Second,
		ManualConnectTimeout: 30 * time.Second,
		CommandTimeout:       15 * time.Second,
	}
}

// ReconcileResult classifies one Reconcile call.
type ReconcileResult string

const (
	ResultGated           ReconcileResult = "gated"
	ResultForced          ReconcileResult = "forced"
	ResultConnected       ReconcileResult = "connected"
	ResultHotspotDisabled ReconcileResult = "hotspot_disabled"
	ResultReconnected     ReconcileResult = "reconnected"
	ResultAccumulating    ReconcileResult = "accumulating"
	ResultHotspotEnabled  ReconcileResult = "hotspot_enabled"
	ResultHotspotFailed   ReconcileResult = "hotspot_failed"
)

// Outcome describes what a Reconcile call did.
type Outcome struct {
	CycleID            string          `json:"cycle_id,omitempty"`
	Result             ReconcileResult `json:"result"`
	SSID               string          `json:"ssid,omitempty"`
	SecondsWithoutWifi float64         `json:"seconds_without_wifi"`
}

// Status is a snapshot for the management API.
type Status struct {
	State          domain.ConnectivityState `json:"state"`
	Platform       string                   `json:"platform"`
	HotspotForced  bool                     `json:"hotspot_forced"`
	HotspotRunning bool                     `json:"hotspot_running"`
	Connection     domain.Connection        `json:"connection"`
	Reconcile      domain.HotspotState      `json:"reconcile"`
}

// ConnectivityManager keeps the device reachable: it prefers a client
// connection and falls back to the hotspot after a sustained outage.
//
// It is not safe for concurrent use.
type ConnectivityManager struct {
	cfg      ConnectivityConfig
	platform platform.Platform
	settings SettingsRepository
	selector *SavedNetworkSelector
	activity ActivitySource
	logger   *slog.Logger
	metrics  *metric.Registry

	state    domain.HotspotState
	lastConn domain.Connection

	// retryHotspot is set when a hotspot start failed; the next full cycle
	// without Wi-Fi starts it regardless of the accumulator.
	retryHotspot bool
}

// NewConnectivityManager creates a ConnectivityManager. Zero durations in
// cfg take their defaults; a nil activity source never postpones.
func NewConnectivityManager(cfg ConnectivityConfig, p platform.Platform, s SettingsRepository,
	selector *SavedNetworkSelector, activity ActivitySource, logger *slog.Logger, metrics *metric.Registry) *ConnectivityManager {
	def := DefaultConnectivityConfig()
	if cfg.MinCycleGap <= 0 {
		cfg.MinCycleGap = def.MinCycleGap
	}
	if cfg.ActivityQuiet <= 0 {
		cfg.ActivityQuiet = def.ActivityQuiet
	}
	if cfg.HotspotAfter <= 0 {
		cfg.HotspotAfter = def.HotspotAfter
	}
	if cfg.ManualConnectTimeout <= 0 {
		cfg.ManualConnectTimeout = def.ManualConnectTimeout
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = def.CommandTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectivityManager{
		cfg:      cfg,
		platform: p,
		settings: s,
		selector: selector,
		activity: activity,
		logger:   logger,
		metrics:  metric.OrNew(metrics),
	}
}

// ============================================================================
// Reconcile
// ============================================================================

// Reconcile runs one arbitration step. It is called on every tick and
// performs a full cycle only when MinCycleGap has passed since the last
// cycle and no activity happened within ActivityQuiet.
//
// Failures of external commands are logged and never abort the cycle.
func (m *ConnectivityManager) Reconcile(ctx context.Context, now time.Time) Outcome {
	if m.state.LastCheckAt.IsZero() {
		m.state.LastCheckAt = now
	}
	out := m.reconcile(ctx, now)
	m.state.LastCheckAt = now

	out.SecondsWithoutWifi = m.state.SecondsWithoutWifi
	m.metrics.ReconcileCycles.WithLabelValues(string(out.Result)).Inc()
	return out
}

func (m *ConnectivityManager) reconcile(ctx context.Context, now time.Time) Outcome {
	if !m.due(now) {
		return Outcome{Result: ResultGated}
	}
	since := m.state.LastReconcileAt
	if since.IsZero() {
		since = m.state.LastCheckAt
	}
	m.state.LastReconcileAt = now

	out := Outcome{CycleID: ulid.Make().String()}
	log := m.logger.With("cycle_id", out.CycleID)
	ctx = logger.WithCycleID(ctx, out.CycleID)

	if hotspotForced(m.settings) {
		log.Debug("hotspot flag set, skipping reconcile")
		out.Result = ResultForced
		return out
	}

	conn := m.probe(ctx, log)
	if conn.Connected {
		out.SSID = conn.SSID
		out.Result = ResultConnected
		if m.hotspotRunning(ctx, log) {
			log.Info("wifi connected, disabling hotspot", "ssid", conn.SSID)
			m.disableHotspot(ctx, log)
			m.setFlag(log, false)
			out.Result = ResultHotspotDisabled
		}
		m.state.SecondsWithoutWifi = 0
		m.retryHotspot = false
		return out
	}

	if m.selector != nil {
		if ssid, ok := m.selector.ConnectSaved(ctx); ok {
			m.state.SecondsWithoutWifi = 0
			m.retryHotspot = false
			m.lastConn = domain.Connection{Connected: true, SSID: ssid}
			out.SSID = ssid
			out.Result = ResultReconnected
			return out
		}
	}

	// Counted from the previous full cycle, not the previous tick.
	m.state.SecondsWithoutWifi += now.Sub(since).Seconds()
	out.Result = ResultAccumulating
	if m.retryHotspot || m.state.SecondsWithoutWifi > m.cfg.HotspotAfter.Seconds() {
		log.Info("no wifi connection, enabling hotspot",
			"seconds_without_wifi", m.state.SecondsWithoutWifi)
		if err := m.enableHotspot(ctx, log); err != nil {
			m.retryHotspot = true
			out.Result = ResultHotspotFailed
			return out
		}
		m.setFlag(log, true)
		m.state.SecondsWithoutWifi = 0
		m.retryHotspot = false
		out.Result = ResultHotspotEnabled
	}
	return out
}

func (m *ConnectivityManager) due(now time.Time) bool {
	if now.Sub(m.state.LastReconcileAt) < m.cfg.MinCycleGap {
		return false
	}
	if m.activity != nil && now.Sub(m.activity.LastActivity()) < m.cfg.ActivityQuiet {
		return false
	}
	return true
}

// ============================================================================
// Operator actions
// ============================================================================

// Startup ensures the hotspot profile exists and restores a persisted
// hotspot that is not running.
func (m *ConnectivityManager) Startup(ctx context.Context) error {
	ssid, _ := m.settings.Get(settings.KeyHotspotSection, settings.KeyHotspotSSID)
	password, _ := m.settings.Get(settings.KeyHotspotSection, settings.KeyHotspotPassword)

	cctx, cancel := context.WithTimeout(ctx, m.cfg.CommandTimeout)
	err := m.platform.EnsureHotspotProfile(cctx, ssid, password)
	cancel()
	if err != nil {
		m.logger.Warn("failed to ensure hotspot profile", "error", err)
		m.metrics.CommandFailures.WithLabelValues("ensure_hotspot_profile").Inc()
	}

	if !hotspotForced(m.settings) {
		return err
	}
	if m.hotspotRunning(ctx, m.logger) {
		m.logger.Info("hotspot already running")
		return err
	}
	m.logger.Info("hotspot flag set but hotspot not running, starting it")
	if herr := m.enableHotspot(ctx, m.logger); herr != nil {
		m.hotspotFailed(m.logger)
		if err == nil {
			err = herr
		}
	}
	return err
}

// ConnectTo joins the given network. On failure the device falls back to
// the hotspot and the flag is set so reconciling leaves it alone. If the
// hotspot does not come up either, reconciling takes over.
func (m *ConnectivityManager) ConnectTo(ctx context.Context, ssid, password string) error {
	ssid = strings.TrimSpace(ssid)
	if ssid == "" {
		return domain.ErrMissingArgument.WithDetails("ssid is required")
	}

	m.disableHotspot(ctx, m.logger)

	cctx, cancel := context.WithTimeout(ctx, m.cfg.ManualConnectTimeout)
	err := m.platform.Connect(cctx, ssid, password)
	cancel()

	if err == nil {
		m.metrics.ConnectAttempts.WithLabelValues("success").Inc()
		m.logger.Info("connected to network", "ssid", ssid)
		m.setFlag(m.logger, false)
		m.state.SecondsWithoutWifi = 0
		m.retryHotspot = false
		m.lastConn = domain.Connection{Connected: true, SSID: ssid}
		return nil
	}

	m.metrics.ConnectAttempts.WithLabelValues("failure").Inc()
	m.logger.Warn("failed to connect, falling back to hotspot", "ssid", ssid, "error", err)
	if herr := m.enableHotspot(ctx, m.logger); herr != nil {
		m.hotspotFailed(m.logger)
		return err
	}
	m.setFlag(m.logger, true)
	return err
}

// Disconnect switches to the hotspot and postpones the next cycle.
func (m *ConnectivityManager) Disconnect(ctx context.Context, now time.Time) error {
	m.logger.Info("disconnecting from wifi")
	m.state.LastReconcileAt = now

	m.lastConn = domain.Connection{}
	if err := m.enableHotspot(ctx, m.logger); err != nil {
		m.hotspotFailed(m.logger)
		return err
	}
	m.setFlag(m.logger, true)
	return nil
}

// ChangeHotspotPassword applies a new hotspot passphrase and stores it.
func (m *ConnectivityManager) ChangeHotspotPassword(ctx context.Context, password string) error {
	if len(password) < 8 || len(password) > 63 {
		return domain.ErrInvalidArgument.WithDetails("hotspot password must be 8 to 63 characters")
	}

	cctx, cancel := context.WithTimeout(ctx, m.cfg.CommandTimeout)
	defer cancel()
	if err := m.platform.ChangeHotspotPassword(cctx, password); err != nil {
		m.logger.Warn("failed to change hotspot password", "error", err)
		m.metrics.CommandFailures.WithLabelValues("change_hotspot_password").Inc()
		return err
	}
	m.logger.Info("hotspot password changed")
	return m.settings.Set([]string{settings.KeyHotspotSection, settings.KeyHotspotPassword}, password)
}

// ============================================================================
// Status
// ============================================================================

// Status probes the platform and derives the current state.
func (m *ConnectivityManager) Status(ctx context.Context) Status {
	forced := hotspotForced(m.settings)
	running := m.hotspotRunning(ctx, m.logger)
	conn := m.probe(ctx, m.logger)

	st := Status{
		Platform:       m.platform.Name(),
		HotspotForced:  forced,
		HotspotRunning: running,
		Connection:     conn,
		Reconcile:      m.state,
	}
	switch {
	case forced || running:
		st.State = domain.StateHotspotActive
	case conn.Connected:
		st.State = domain.StateClientConnected
	default:
		st.State = domain.StateDisconnectedAccumulating
	}
	return st
}

// State returns the reconcile accumulator.
func (m *ConnectivityManager) State() domain.HotspotState {
	return m.state
}

// LastConnection returns the most recent probe or connection result.
func (m *ConnectivityManager) LastConnection() domain.Connection {
	return m.lastConn
}

// HotspotForced reports the persisted hotspot flag.
func (m *ConnectivityManager) HotspotForced() bool {
	return hotspotForced(m.settings)
}

// ============================================================================
// Helpers
// ============================================================================

// probe treats a failed probe as "not connected".
func (m *ConnectivityManager) probe(ctx context.Context, log *slog.Logger) domain.Connection {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.CommandTimeout)
	defer cancel()
	conn, err := m.platform.ActiveConnection(ctx)
	if err != nil {
		log.Warn("failed to check current connection", "error", err)
		m.metrics.CommandFailures.WithLabelValues("active_connection").Inc()
		conn = domain.Connection{}
	}
	m.lastConn = conn
	return conn
}

// hotspotRunning treats a failed query as "not running".
func (m *ConnectivityManager) hotspotRunning(ctx context.Context, log *slog.Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.CommandTimeout)
	defer cancel()
	running, err := m.platform.HotspotRunning(ctx)
	if err != nil {
		log.Warn("failed to query hotspot state", "error", err)
		m.metrics.CommandFailures.WithLabelValues("hotspot_running").Inc()
		return false
	}
	return running
}

func (m *ConnectivityManager) enableHotspot(ctx context.Context, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.CommandTimeout)
	defer cancel()
	if err := m.platform.EnableHotspot(ctx); err != nil {
		log.Warn("failed to enable hotspot", "error", err)
		m.metrics.CommandFailures.WithLabelValues("enable_hotspot").Inc()
		return err
	}
	m.metrics.HotspotTransitions.WithLabelValues("enable").Inc()
	return nil
}

// hotspotFailed hands a failed hotspot start back to reconciling. The flag
// is cleared so cycles keep running.
func (m *ConnectivityManager) hotspotFailed(log *slog.Logger) {
	m.setFlag(log, false)
	m.retryHotspot = true
}

func (m *ConnectivityManager) disableHotspot(ctx context.Context, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.CommandTimeout)
	defer cancel()
	if err := m.platform.DisableHotspot(ctx); err != nil {
		log.Warn("failed to disable hotspot", "error", err)
		m.metrics.CommandFailures.WithLabelValues("disable_hotspot").Inc()
		return
	}
	m.metrics.HotspotTransitions.WithLabelValues("disable").Inc()
}

func (m *ConnectivityManager) setFlag(log *slog.Logger, on bool) {
	if err := setHotspotFlag(m.settings, on); err != nil {
		log.Warn("failed to store hotspot flag", "error", err)
	}
}
