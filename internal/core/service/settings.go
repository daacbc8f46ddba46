package service

import (
	"strings"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/storage/settings"
)

// SettingsRepository is the part of the settings store the services use.
type SettingsRepository interface {
	Get(path ...string) (string, bool)
	Set(path []string, value any) error
	SavedNetworks() []domain.SavedNetwork
}

var _ SettingsRepository = (*settings.Store)(nil)

const (
	flagOn  = "1"
	flagOff = "0"
)

// hotspotForced reports whether the persisted hotspot flag is set.
func hotspotForced(s SettingsRepository) bool {
	v, _ := s.Get(settings.KeyHotspotActive)
	v = strings.TrimSpace(v)
	return v == flagOn || strings.EqualFold(v, "true")
}

func setHotspotFlag(s SettingsRepository, on bool) error {
	v := flagOff
	if on {
		v = flagOn
	}
	return s.Set([]string{settings.KeyHotspotActive}, v)
}
