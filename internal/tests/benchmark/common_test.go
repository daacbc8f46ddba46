package benchmark

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raulk/clock"

	"github.com/yndnr/netkeep-go/internal/storage/settings"
)

// CellCounts defines the scan sizes for benchmarking.
var CellCounts = []int{10, 50, 200}

// NetworkCounts defines saved list sizes for benchmarking.
var NetworkCounts = []int{10, 100, 500}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// iwlistOutput renders n cells, every third SSID repeated.
func iwlistOutput(n int) string {
	var b strings.Builder
	b.WriteString("wlan0     Scan completed :\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "          Cell %02d - Address: 00:11:22:33:%02X:%02X\n", i+1, i/256, i%256)
		b.WriteString("                    Channel:6\n")
		fmt.Fprintf(&b, "                    Quality=40/70  Signal level=%d dBm\n", -40-i%50)
		fmt.Fprintf(&b, "                    ESSID:\"net-%d\"\n", i-i%3)
	}
	return b.String()
}

// openStore opens a store in a fresh directory on a mock clock.
func openStore(b *testing.B) (*settings.Store, *clock.Mock) {
	b.Helper()
	clk := clock.NewMock()
	s, err := settings.Open(settings.Config{Path: filepath.Join(b.TempDir(), "settings.xml")},
		settings.WithClock(clk), settings.WithLogger(quietLogger()))
	if err != nil {
		b.Fatalf("open store: %v", err)
	}
	return s, clk
}

// prefillNetworks stores n saved networks.
func prefillNetworks(b *testing.B, s *settings.Store, n int) {
	b.Helper()
	for i := 0; i < n; i++ {
		p := i
		if err := s.AddSavedNetwork(fmt.Sprintf("net-%d", i), "password", &p); err != nil {
			b.Fatalf("add network: %v", err)
		}
	}
}
