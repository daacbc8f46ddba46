package daemon

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/core/service"
	"github.com/yndnr/netkeep-go/internal/storage/settings"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
)

// stubPlatform is a concurrency-safe in-memory platform.
type stubPlatform struct {
	mu        sync.Mutex
	connected string
	running   bool
	reachable map[string]bool
	ensured   int
}

func (p *stubPlatform) Name() string { return "stub" }

func (p *stubPlatform) EnsureHotspotProfile(context.Context, string, string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ensured++
	return nil
}

func (p *stubPlatform) EnableHotspot(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	p.connected = ""
	return nil
}

func (p *stubPlatform) DisableHotspot(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	return nil
}

func (p *stubPlatform) HotspotRunning(context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running, nil
}

func (p *stubPlatform) ChangeHotspotPassword(context.Context, string) error { return nil }

func (p *stubPlatform) Connect(_ context.Context, ssid, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.reachable[ssid] {
		return domain.ErrCommandFailure.WithDetails("connect " + ssid)
	}
	p.connected = ssid
	return nil
}

func (p *stubPlatform) ActiveConnection(context.Context) (domain.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connected == "" {
		return domain.Connection{}, nil
	}
	return domain.Connection{Connected: true, SSID: p.connected}, nil
}

func (p *stubPlatform) ScanRaw(context.Context) (string, error) { return "", nil }

func (p *stubPlatform) ensureCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ensured
}

type fixture struct {
	app      *App
	store    *settings.Store
	platform *stubPlatform
	clock    *clock.Mock
	metrics  *metric.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMock()
	clk.Add(time.Hour)

	store, err := settings.Open(settings.Config{Path: filepath.Join(t.TempDir(), "settings.xml")},
		settings.WithClock(clk), settings.WithLogger(logger))
	require.NoError(t, err)

	p := &stubPlatform{reachable: map[string]bool{}}
	reg := metric.NewRegistry()
	app := New(Config{Interval: 5 * time.Second}, store, p,
		WithClock(clk),
		WithLogger(logger),
		WithMetrics(reg),
		WithHostInfo(func(context.Context) (*HostInfo, error) {
			return &HostInfo{Hostname: "box", OS: "linux"}, nil
		}))
	return &fixture{app: app, store: store, platform: p, clock: clk, metrics: reg}
}

func TestTick_RaisesHotspotAfterOutage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out := f.app.Tick(ctx)
	require.Equal(t, service.ResultAccumulating, out.Result)

	f.clock.Add(241 * time.Second)
	out = f.app.Tick(ctx)
	require.Equal(t, service.ResultHotspotEnabled, out.Result)
	require.Equal(t, "1", f.store.GetOr("", settings.KeyHotspotActive))

	// The flag change is flushed by the tick.
	require.False(t, f.store.Dirty())
}

func TestTick_HotspotAtConfiguredCadence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := f.clock.Now()
	for f.clock.Now().Sub(start) <= 10*time.Minute {
		if f.app.Tick(ctx).Result == service.ResultHotspotEnabled {
			break
		}
		f.clock.Add(f.app.cfg.Interval)
	}
	// Full cycles run every 60s; the one at 300s is the first past 240s.
	require.Equal(t, 5*time.Minute, f.clock.Now().Sub(start))
	require.Equal(t, "1", f.store.GetOr("", settings.KeyHotspotActive))
}

func TestTick_ReconnectsToSavedNetwork(t *testing.T) {
	f := newFixture(t)
	f.platform.reachable["home"] = true
	require.NoError(t, f.app.AddSavedNetwork("home", "secret", nil))

	out := f.app.Tick(context.Background())
	require.Equal(t, service.ResultReconnected, out.Result)
	require.Equal(t, "home", out.SSID)
}

func TestTick_ReappliesProfileAfterReset(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Startup(context.Background()))
	require.Equal(t, 1, f.platform.ensureCount())

	require.NoError(t, f.app.ResetSettings())
	f.app.Tick(context.Background())
	require.Equal(t, 2, f.platform.ensureCount())

	f.app.Tick(context.Background())
	require.Equal(t, 2, f.platform.ensureCount())
}

func TestSavedNetworks_HidePasswords(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.AddSavedNetwork("b", "pw-b", domain.IntPtr(2)))
	require.NoError(t, f.app.AddSavedNetwork("a", "pw-a", domain.IntPtr(1)))

	nets := f.app.SavedNetworks()
	require.Len(t, nets, 2)
	require.Equal(t, "a", nets[0].SSID)
	for _, n := range nets {
		require.Empty(t, n.Password)
	}

	// The store keeps them.
	n, ok := f.store.SavedNetwork("a")
	require.True(t, ok)
	require.Equal(t, "pw-a", n.Password)
}

func TestAddSavedNetwork_RequiresFields(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.app.AddSavedNetwork(" ", "pw", nil), domain.ErrMissingArgument)
	require.ErrorIs(t, f.app.AddSavedNetwork("home", "", nil), domain.ErrMissingArgument)
}

func TestRemoveSavedNetwork(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.AddSavedNetwork("home", "pw", nil))

	require.NoError(t, f.app.RemoveSavedNetwork("home"))
	require.ErrorIs(t, f.app.RemoveSavedNetwork("home"), domain.ErrNetworkNotFound)
}

func TestConnectSaved(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.ConnectSaved(context.Background())
	require.ErrorIs(t, err, domain.ErrNoSavedNetwork)

	f.platform.reachable["office"] = true
	require.NoError(t, f.app.AddSavedNetwork("office", "pw", nil))
	ssid, err := f.app.ConnectSaved(context.Background())
	require.NoError(t, err)
	require.Equal(t, "office", ssid)
}

func TestConnectAndDisconnect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Error(t, f.app.Connect(ctx, "nowhere", "pw"))
	require.Equal(t, "1", f.store.GetOr("", settings.KeyHotspotActive))

	f.platform.reachable["home"] = true
	require.NoError(t, f.app.Connect(ctx, "home", "pw"))
	require.Equal(t, "0", f.store.GetOr("", settings.KeyHotspotActive))

	require.NoError(t, f.app.Disconnect(ctx))
	require.Equal(t, "1", f.store.GetOr("", settings.KeyHotspotActive))

	// Disconnect postpones the next cycle.
	out := f.app.Tick(ctx)
	require.Equal(t, service.ResultGated, out.Result)
}

func TestChangeHotspotPassword_Persists(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.app.ChangeHotspotPassword(context.Background(), "short"), domain.ErrInvalidArgument)

	require.NoError(t, f.app.ChangeHotspotPassword(context.Background(), "longenough"))
	require.False(t, f.store.Dirty())
	require.Equal(t, "longenough", f.store.GetOr("", settings.KeyHotspotSection, settings.KeyHotspotPassword))
}

func TestSettings_GetSetReset(t *testing.T) {
	f := newFixture(t)

	v, err := f.app.GetSetting("hotspot.ssid")
	require.NoError(t, err)
	require.NotNil(t, v.Value)
	require.Equal(t, "NetKeep", *v.Value)

	v, err = f.app.GetSetting("hotspot")
	require.NoError(t, err)
	require.Nil(t, v.Value)
	require.Contains(t, v.Keys, "ssid")

	v, err = f.app.GetSetting("")
	require.NoError(t, err)
	require.Contains(t, v.Keys, settings.KeyHotspotActive)

	_, err = f.app.GetSetting("missing.key")
	require.ErrorIs(t, err, domain.ErrMissingData)

	require.NoError(t, f.app.SetSetting("display.brightness", 30))
	require.True(t, f.store.Dirty())
	require.ErrorIs(t, f.app.SetSetting("", 1), domain.ErrMissingArgument)

	snap := f.app.SettingsSnapshot()
	require.Equal(t, "30", snap["display.brightness"])
	require.Equal(t, "NetKeep", snap["hotspot.ssid"])

	require.NoError(t, f.app.ResetSettings())
	v, err = f.app.GetSetting("display.brightness")
	require.NoError(t, err)
	require.Equal(t, "100", *v.Value)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	f.app.TouchActivity()

	st := f.app.Status(context.Background())
	require.Equal(t, "stub", st.Platform)
	require.Equal(t, domain.StateDisconnectedAccumulating, st.State)
	require.Equal(t, f.clock.Now(), st.LastActivity)
	require.NotNil(t, st.Host)
	require.Equal(t, "box", st.Host.Hostname)
	require.NotEmpty(t, st.Build.GoVersion)
}

func TestStats_Collected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.AddSavedNetwork("home", "pw", nil))

	families, err := f.metrics.Gatherer().Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() == "netkeep_wifi_saved_networks" {
			found = true
			require.Equal(t, 1.0, mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
	require.True(t, found)
}

func TestRunAndStop(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go f.app.Run(ctx)
	require.Eventually(t, f.app.running.Load, time.Second, 5*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, f.app.Stop(stopCtx))
}

func TestStop_WithoutRun(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Stop(context.Background()))
}
