// Package config defines the CLI configuration structure.
package config

// DefaultSocket is the daemon's default management socket.
const DefaultSocket = "/run/netkeep/netkeep.sock"

// CLIConfig is the configuration for netkeep-cli.
type CLIConfig struct {
	// Socket is the management socket path or an http:// URL.
	Socket string `yaml:"socket"`

	// Output is the default output format: table, json, yaml.
	Output string `yaml:"output"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Socket: DefaultSocket,
		Output: "table",
	}
}
