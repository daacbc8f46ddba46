// Package command provides CLI command definitions for netkeep-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, client and output helpers
//   - status.go: Daemon status
//   - wifi.go: Scan, saved networks, manual connect and disconnect
//   - hotspot.go: Hotspot subcommand group
//   - settings.go: Settings subcommand group
//   - activity.go: Activity reporting
//
// Every command parses its flags, calls the management API over the
// daemon socket and renders the result with the selected formatter.
package command
