package service

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/platform"
)

var (
	essidRe   = regexp.MustCompile(`ESSID:"([^"]*)"`)
	addressRe = regexp.MustCompile(`Address:\s*(\S+)`)
	signalRe  = regexp.MustCompile(`Signal level=(-?\d+)\s*dBm`)
)

// NetworkScanner lists visible networks.
type NetworkScanner struct {
	platform platform.Platform
	logger   *slog.Logger
}

// NewNetworkScanner creates a NetworkScanner.
func NewNetworkScanner(p platform.Platform, logger *slog.Logger) *NetworkScanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkScanner{platform: p, logger: logger}
}

// Scan returns visible networks, strongest first.
func (s *NetworkScanner) Scan(ctx context.Context) ([]domain.ScanResult, error) {
	raw, err := s.platform.ScanRaw(ctx)
	if err != nil {
		return nil, err
	}
	return ParseScan(raw), nil
}

// VisibleSSIDs returns the set of visible SSIDs. A failed scan yields an
// empty set, which callers treat as "visibility unknown".
func (s *NetworkScanner) VisibleSSIDs(ctx context.Context) mapset.Set[string] {
	results, err := s.Scan(ctx)
	if err != nil {
		s.logger.Warn("wifi scan failed", "error", err)
		return mapset.NewThreadUnsafeSet[string]()
	}
	return mapset.NewThreadUnsafeSet(lo.Map(results, func(r domain.ScanResult, _ int) string {
		return r.SSID
	})...)
}

// ParseScan parses iwlist scan output. Cells without an ESSID or a dBm
// signal level are skipped. Each SSID is reported once with its strongest
// cell; results are ordered by signal, then SSID.
func ParseScan(raw string) []domain.ScanResult {
	cells := strings.Split(raw, "Cell ")
	if len(cells) < 2 {
		return nil
	}

	var all []domain.ScanResult
	for _, cell := range cells[1:] {
		r, ok := parseCell(cell)
		if ok {
			all = append(all, r)
		}
	}

	best := lo.MapToSlice(
		lo.GroupBy(all, func(r domain.ScanResult) string { return r.SSID }),
		func(_ string, group []domain.ScanResult) domain.ScanResult {
			return lo.MaxBy(group, func(a, b domain.ScanResult) bool {
				return a.SignalPercent > b.SignalPercent
			})
		},
	)
	sort.Slice(best, func(i, j int) bool {
		if best[i].SignalPercent != best[j].SignalPercent {
			return best[i].SignalPercent > best[j].SignalPercent
		}
		return best[i].SSID < best[j].SSID
	})
	return best
}

func parseCell(cell string) (domain.ScanResult, bool) {
	m := essidRe.FindStringSubmatch(cell)
	if m == nil || hiddenESSID(m[1]) {
		return domain.ScanResult{}, false
	}
	sig := signalRe.FindStringSubmatch(cell)
	if sig == nil {
		return domain.ScanResult{}, false
	}
	dbm, err := strconv.Atoi(sig[1])
	if err != nil {
		return domain.ScanResult{}, false
	}

	r := domain.ScanResult{
		SSID:          m[1],
		SignalDBm:     dbm,
		SignalPercent: domain.SignalPercent(dbm),
	}
	if a := addressRe.FindStringSubmatch(cell); a != nil {
		r.Address = a[1]
	}
	return r, true
}

// hiddenESSID reports an empty ESSID or the NUL padding iwlist prints
// for hidden networks.
func hiddenESSID(essid string) bool {
	essid = strings.ReplaceAll(essid, `\x00`, "")
	return strings.Trim(essid, "\x00") == ""
}
