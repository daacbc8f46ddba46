// Package config provides CLI configuration for NetKeep.
//
//   - spec.go: CLIConfig struct (~/.config/netkeep/cli.yaml)
//   - loader.go: Configuration loading
//
// Flags and NETKEEP_* environment variables override the file.
package config
