// Package platform is the boundary between NetKeep and the OS network
// tooling.
//
// Platform is a capability interface with two implementations: Linux,
// which drives nmcli, iwlist, iwconfig and iw through a Runner, and
// Null, which succeeds trivially and reports a connected client link
// for development hosts without Wi-Fi hardware. New selects one from
// configuration.
package platform
