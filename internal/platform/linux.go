package platform

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/yndnr/netkeep-go/internal/core/domain"
)

// Default Linux settings.
const (
	DefaultInterface      = "wlan0"
	DefaultHotspotProfile = "Hotspot"
)

var ifaceRe = regexp.MustCompile(`Interface\s+(\S+)`)

// LinuxConfig configures the Linux platform.
type LinuxConfig struct {
	// Interface is the wireless interface, used for scanning and as the
	// fallback when iw reports none.
	Interface string

	// HotspotProfile is the NetworkManager connection name of the hotspot.
	HotspotProfile string
}

// Linux drives NetworkManager and the wireless-tools suite.
type Linux struct {
	cfg    LinuxConfig
	run    Runner
	logger *slog.Logger
}

// NewLinux creates a Linux platform.
func NewLinux(cfg LinuxConfig, run Runner, logger *slog.Logger) *Linux {
	if cfg.Interface == "" {
		cfg.Interface = DefaultInterface
	}
	if cfg.HotspotProfile == "" {
		cfg.HotspotProfile = DefaultHotspotProfile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Linux{cfg: cfg, run: run, logger: logger}
}

// Name implements Platform.
func (l *Linux) Name() string { return "linux" }

func (l *Linux) nmcli(ctx context.Context, args ...string) (string, error) {
	return l.run.Run(ctx, Command{Name: "nmcli", Args: args, Privileged: true})
}

// EnsureHotspotProfile implements Platform.
func (l *Linux) EnsureHotspotProfile(ctx context.Context, ssid, password string) error {
	if _, err := l.nmcli(ctx, "connection", "show", l.cfg.HotspotProfile); err == nil {
		l.logger.Debug("hotspot profile exists", "profile", l.cfg.HotspotProfile)
		return nil
	}
	_, err := l.nmcli(ctx, "device", "wifi", "hotspot",
		"ifname", l.cfg.Interface,
		"con-name", l.cfg.HotspotProfile,
		"ssid", ssid,
		"password", password)
	if err != nil {
		return err
	}
	l.logger.Info("hotspot profile created", "profile", l.cfg.HotspotProfile, "ssid", ssid)
	return nil
}

// EnableHotspot implements Platform.
func (l *Linux) EnableHotspot(ctx context.Context) error {
	_, err := l.nmcli(ctx, "connection", "up", l.cfg.HotspotProfile)
	return err
}

// DisableHotspot implements Platform.
func (l *Linux) DisableHotspot(ctx context.Context) error {
	_, err := l.nmcli(ctx, "connection", "down", l.cfg.HotspotProfile)
	return err
}

// HotspotRunning implements Platform.
func (l *Linux) HotspotRunning(ctx context.Context) (bool, error) {
	out, err := l.run.Run(ctx, Command{
		Name: "nmcli",
		Args: []string{"-t", "-f", "NAME,TYPE,DEVICE", "connection", "show", "--active"},
	})
	if err != nil {
		return false, err
	}
	return parseActiveHotspot(out, l.cfg.HotspotProfile), nil
}

// ChangeHotspotPassword implements Platform.
func (l *Linux) ChangeHotspotPassword(ctx context.Context, password string) error {
	p := l.cfg.HotspotProfile
	steps := [][]string{
		{"connection", "show", p},
		{"connection", "modify", p, "wifi-sec.key-mgmt", "wpa-psk"},
		{"connection", "modify", p, "wifi-sec.psk", password},
		{"connection", "down", p},
		{"connection", "up", p},
	}
	for _, args := range steps {
		if _, err := l.nmcli(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// Connect implements Platform.
func (l *Linux) Connect(ctx context.Context, ssid, password string) error {
	_, err := l.nmcli(ctx, "device", "wifi", "connect", ssid, "password", password)
	return err
}

// ActiveConnection implements Platform.
func (l *Linux) ActiveConnection(ctx context.Context) (domain.Connection, error) {
	out, err := l.run.Run(ctx, Command{Name: "iwconfig"})
	if err != nil {
		return domain.Connection{}, err
	}
	if strings.Contains(out, "Mode:Master") {
		return domain.Connection{Reason: "running as hotspot"}, nil
	}

	ssid, ok := parseESSID(out)
	if !ok {
		return domain.Connection{Reason: "no Wi-Fi interface found"}, nil
	}

	iface := l.cfg.Interface
	if dev, err := l.run.Run(ctx, Command{Name: "iw", Args: []string{"dev"}}); err == nil {
		if m := ifaceRe.FindStringSubmatch(dev); m != nil {
			iface = m[1]
		}
	}

	conn := domain.Connection{Connected: true, SSID: ssid}
	link, err := l.run.Run(ctx, Command{Name: "iw", Args: []string{"dev", iface, "link"}})
	if err != nil {
		return conn, err
	}
	conn.BSSID = parseBSSID(link)
	return conn, nil
}

// ScanRaw implements Platform.
func (l *Linux) ScanRaw(ctx context.Context) (string, error) {
	return l.run.Run(ctx, Command{
		Name:       "iwlist",
		Args:       []string{l.cfg.Interface, "scan"},
		Privileged: true,
	})
}

// parseESSID returns the first associated ESSID in iwconfig output.
func parseESSID(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		i := strings.Index(line, "ESSID:")
		if i < 0 {
			continue
		}
		ssid := strings.Trim(strings.TrimSpace(line[i+len("ESSID:"):]), `"`)
		if ssid != "" && ssid != "off/any" {
			return ssid, true
		}
	}
	return "", false
}

// parseBSSID extracts the access point address from "iw dev X link".
func parseBSSID(out string) string {
	for _, line := range strings.Split(out, "\n") {
		i := strings.Index(line, "Connected to")
		if i < 0 {
			continue
		}
		fields := strings.Fields(line[i+len("Connected to"):])
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

// parseActiveHotspot looks for the hotspot profile in terse nmcli output.
func parseActiveHotspot(out, profile string) bool {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimSpace(line), ":")
		if len(fields) < 2 || fields[0] != profile {
			continue
		}
		if fields[1] == "wifi" || fields[1] == "802-11-wireless" {
			return true
		}
	}
	return false
}
