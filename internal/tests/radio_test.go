package tests

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/platform"
)

// accessPoint is a network within range of the fake radio.
type accessPoint struct {
	bssid    string
	password string
	dbm      int
}

// fakeRadio answers nmcli, iw, iwconfig and iwlist the way a single
// wlan0 adapter managed by NetworkManager would.
type fakeRadio struct {
	mu sync.Mutex

	inRange   map[string]accessPoint
	client    string
	hotspotUp bool

	profile    bool
	profileSSID string
	profilePSK string

	calls []string
}

var _ platform.Runner = (*fakeRadio)(nil)

func newFakeRadio() *fakeRadio {
	return &fakeRadio{inRange: map[string]accessPoint{}}
}

func (r *fakeRadio) addNetwork(ssid, bssid, password string, dbm int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inRange[ssid] = accessPoint{bssid: bssid, password: password, dbm: dbm}
}

// leave takes ssid out of range and drops the association with it.
func (r *fakeRadio) leave(ssid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inRange, ssid)
	if r.client == ssid {
		r.client = ""
	}
}

func (r *fakeRadio) snapshot() (client string, hotspotUp bool, psk string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client, r.hotspotUp, r.profilePSK
}

func (r *fakeRadio) count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Run implements platform.Runner.
func (r *fakeRadio) Run(_ context.Context, cmd platform.Command) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
	r.calls = append(r.calls, line)

	fail := func() (string, error) {
		return "", domain.ErrCommandFailure.WithDetails(cmd.String())
	}

	switch cmd.Name {
	case "iwconfig":
		return r.iwconfig(), nil
	case "iw":
		switch {
		case len(cmd.Args) == 1:
			return "phy#0\n\tInterface wlan0\n\t\tifindex 3\n", nil
		case r.client != "":
			return fmt.Sprintf("Connected to %s (on wlan0)\n\tSSID: %s\n", r.inRange[r.client].bssid, r.client), nil
		default:
			return "Not connected.\n", nil
		}
	case "iwlist":
		return r.iwlist(), nil
	case "nmcli":
	default:
		return fail()
	}

	a := cmd.Args
	switch {
	case len(a) == 3 && a[0] == "connection" && a[1] == "show" && a[2] == "Hotspot":
		if !r.profile {
			return fail()
		}
		return "connection.id: Hotspot\n", nil

	case len(a) == 11 && a[0] == "device" && a[2] == "hotspot":
		r.profile, r.profileSSID, r.profilePSK = true, a[8], a[10]
		r.hotspotUp, r.client = true, ""
		return "Device 'wlan0' successfully activated.\n", nil

	case len(a) == 3 && a[0] == "connection" && a[1] == "up":
		if !r.profile {
			return fail()
		}
		r.hotspotUp, r.client = true, ""
		return "Connection successfully activated\n", nil

	case len(a) == 3 && a[0] == "connection" && a[1] == "down":
		r.hotspotUp = false
		return "Connection 'Hotspot' successfully deactivated\n", nil

	case len(a) == 6 && a[0] == "-t" && a[5] == "--active":
		var out strings.Builder
		if r.hotspotUp {
			out.WriteString("Hotspot:802-11-wireless:wlan0\n")
		}
		if r.client != "" {
			fmt.Fprintf(&out, "%s:802-11-wireless:wlan0\n", r.client)
		}
		out.WriteString("lo:loopback:lo\n")
		return out.String(), nil

	case len(a) == 5 && a[0] == "connection" && a[1] == "modify":
		if a[3] == "wifi-sec.psk" {
			r.profilePSK = a[4]
		}
		return "", nil

	case len(a) == 6 && a[0] == "device" && a[2] == "connect":
		ap, ok := r.inRange[a[3]]
		if !ok || ap.password != a[5] {
			return fail()
		}
		r.client, r.hotspotUp = a[3], false
		return "Device 'wlan0' successfully activated.\n", nil
	}
	return fail()
}

func (r *fakeRadio) iwconfig() string {
	switch {
	case r.hotspotUp:
		return "wlan0     IEEE 802.11  Mode:Master  Tx-Power=31 dBm\n"
	case r.client != "":
		return fmt.Sprintf("wlan0     IEEE 802.11  ESSID:%q\n          Mode:Managed  Access Point: %s\n",
			r.client, r.inRange[r.client].bssid)
	default:
		return "wlan0     IEEE 802.11  ESSID:off/any\n          Mode:Managed  Access Point: Not-Associated\n"
	}
}

func (r *fakeRadio) iwlist() string {
	ssids := make([]string, 0, len(r.inRange))
	for ssid := range r.inRange {
		ssids = append(ssids, ssid)
	}
	sort.Strings(ssids)

	var out strings.Builder
	out.WriteString("wlan0     Scan completed :\n")
	for i, ssid := range ssids {
		ap := r.inRange[ssid]
		fmt.Fprintf(&out, "          Cell %02d - Address: %s\n", i+1, ap.bssid)
		fmt.Fprintf(&out, "                    Quality=50/70  Signal level=%d dBm\n", ap.dbm)
		fmt.Fprintf(&out, "                    ESSID:%q\n", ssid)
	}
	return out.String()
}
