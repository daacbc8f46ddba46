// Package buildinfo provides build information for NetKeep.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/netkeep-go/internal/infra/buildinfo.Version=v1.0.0"
//
// When ldflags are not set, Get falls back to the module and VCS data the
// Go toolchain embeds in the binary.
package buildinfo
