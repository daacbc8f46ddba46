package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/storage/settings"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePlatform records calls and answers from fields.
type fakePlatform struct {
	conn     domain.Connection
	probeErr error
	running  bool
	scan     string
	scanErr  error

	// reachable lists SSIDs Connect succeeds for.
	reachable map[string]bool
	enableErr error
	ensureErr error
	changeErr error

	calls []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{reachable: map[string]bool{}}
}

func (f *fakePlatform) record(s string) { f.calls = append(f.calls, s) }

func (f *fakePlatform) Name() string { return "fake" }

func (f *fakePlatform) EnsureHotspotProfile(_ context.Context, ssid, password string) error {
	f.record("ensure " + ssid + " " + password)
	return f.ensureErr
}

func (f *fakePlatform) EnableHotspot(context.Context) error {
	f.record("enable")
	if f.enableErr != nil {
		return f.enableErr
	}
	f.running = true
	return nil
}

func (f *fakePlatform) DisableHotspot(context.Context) error {
	f.record("disable")
	f.running = false
	return nil
}

func (f *fakePlatform) HotspotRunning(context.Context) (bool, error) {
	f.record("running?")
	return f.running, nil
}

func (f *fakePlatform) ChangeHotspotPassword(context.Context, string) error {
	f.record("change-password")
	return f.changeErr
}

func (f *fakePlatform) Connect(_ context.Context, ssid, _ string) error {
	f.record("connect " + ssid)
	if f.reachable[ssid] {
		f.conn = domain.Connection{Connected: true, SSID: ssid}
		return nil
	}
	return domain.ErrCommandFailure.WithDetails("connect " + ssid)
}

func (f *fakePlatform) ActiveConnection(context.Context) (domain.Connection, error) {
	f.record("probe")
	return f.conn, f.probeErr
}

func (f *fakePlatform) ScanRaw(context.Context) (string, error) {
	f.record("scan")
	return f.scan, f.scanErr
}

// memSettings is an in-memory SettingsRepository.
type memSettings struct {
	values map[string]string
	saved  []domain.SavedNetwork
}

func newMemSettings() *memSettings {
	return &memSettings{values: map[string]string{
		settings.KeyHotspotActive: "0",
		"hotspot.ssid":            "NetKeep",
		"hotspot.password":        "netkeep1234",
	}}
}

func (m *memSettings) Get(path ...string) (string, bool) {
	v, ok := m.values[strings.Join(path, ".")]
	return v, ok
}

func (m *memSettings) Set(path []string, value any) error {
	m.values[strings.Join(path, ".")] = fmt.Sprint(value)
	return nil
}

func (m *memSettings) SavedNetworks() []domain.SavedNetwork {
	out := append([]domain.SavedNetwork(nil), m.saved...)
	domain.SortSavedNetworks(out)
	return out
}
