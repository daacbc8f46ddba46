package settings

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/yndnr/netkeep-go/internal/core/domain"
)

const (
	networksTag = "wifi_networks"
	networkTag  = "network"

	attrSSID     = "ssid"
	attrPassword = "password"
	attrPriority = "priority"
)

// SavedNetworks returns the saved networks in connection order.
func (s *Store) SavedNetworks() []domain.SavedNetwork {
	section := s.doc.Root().SelectElement(networksTag)
	if section == nil {
		return nil
	}

	var out []domain.SavedNetwork
	for _, el := range section.SelectElements(networkTag) {
		n := domain.SavedNetwork{
			SSID:     strings.TrimSpace(el.SelectAttrValue(attrSSID, "")),
			Password: el.SelectAttrValue(attrPassword, ""),
		}
		if p := el.SelectAttr(attrPriority); p != nil {
			if v, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil {
				n.Priority = domain.IntPtr(v)
			}
		}
		out = append(out, n)
	}
	domain.SortSavedNetworks(out)
	return out
}

// AddSavedNetwork inserts or updates the network with the given SSID and
// persists immediately. A nil priority keeps any existing priority.
func (s *Store) AddSavedNetwork(ssid, password string, priority *int) error {
	ssid = strings.TrimSpace(ssid)
	if ssid == "" {
		return domain.ErrInvalidArgument.WithDetails("ssid is required")
	}

	section := s.networksSection()
	el := findNetwork(section, ssid)
	if el == nil {
		el = section.CreateElement(networkTag)
		el.CreateAttr(attrSSID, ssid)
	}
	el.CreateAttr(attrPassword, password)
	if priority != nil {
		el.CreateAttr(attrPriority, strconv.Itoa(*priority))
	}
	for _, dup := range section.SelectElements(networkTag) {
		if dup != el && strings.TrimSpace(dup.SelectAttrValue(attrSSID, "")) == ssid {
			section.RemoveChild(dup)
		}
	}

	s.dirty = true
	s.logger.Info("saved network stored", "ssid", ssid)
	return s.SaveImmediate()
}

// RemoveSavedNetwork deletes every entry with the given SSID and persists
// immediately. It reports whether anything was removed.
func (s *Store) RemoveSavedNetwork(ssid string) (bool, error) {
	ssid = strings.TrimSpace(ssid)
	section := s.doc.Root().SelectElement(networksTag)
	if section == nil || ssid == "" {
		return false, nil
	}

	removed := 0
	for _, el := range section.SelectElements(networkTag) {
		if strings.TrimSpace(el.SelectAttrValue(attrSSID, "")) == ssid {
			section.RemoveChild(el)
			removed++
		}
	}
	if removed == 0 {
		return false, nil
	}

	s.dirty = true
	s.logger.Info("saved network removed", "ssid", ssid)
	return true, s.SaveImmediate()
}

// SavedNetwork returns the saved entry for ssid.
func (s *Store) SavedNetwork(ssid string) (domain.SavedNetwork, bool) {
	ssid = strings.TrimSpace(ssid)
	for _, n := range s.SavedNetworks() {
		if n.SSID == ssid {
			return n, true
		}
	}
	return domain.SavedNetwork{}, false
}

func (s *Store) networksSection() *etree.Element {
	root := s.doc.Root()
	section := root.SelectElement(networksTag)
	if section == nil {
		section = root.CreateElement(networksTag)
	}
	return section
}

func findNetwork(section *etree.Element, ssid string) *etree.Element {
	for _, el := range section.SelectElements(networkTag) {
		if strings.TrimSpace(el.SelectAttrValue(attrSSID, "")) == ssid {
			return el
		}
	}
	return nil
}
