// Package command provides CLI command definitions for netkeep-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/netkeep-go/internal/cli/config"
	"github.com/yndnr/netkeep-go/internal/cli/connection"
	"github.com/yndnr/netkeep-go/internal/cli/output"
	"github.com/yndnr/netkeep-go/internal/infra/buildinfo"
)

// metaConfig is the App.Metadata key of the resolved CLI configuration.
const metaConfig = "config"

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "netkeep-cli",
		Usage:   "NetKeep Wi-Fi daemon management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			StatusCommand(),
			WifiCommand(),
			HotspotCommand(),
			SettingsCommand(),
			ActivityCommand(),
		},
		Before: loadConfig,
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "socket",
			Aliases: []string{"s"},
			Usage:   "Daemon management socket or http:// URL",
			EnvVars: []string{"NETKEEP_SOCKET"},
			Value:   config.DefaultSocket,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"NETKEEP_CLI_CONFIG"},
		},
	}
}

// loadConfig reads the config file; explicitly set flags win over it.
func loadConfig(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("socket") {
		cfg.Socket = c.String("socket")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if _, err := output.ParseFormat(cfg.Output); err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]any{}
	}
	c.App.Metadata[metaConfig] = cfg
	return nil
}

// GetConfig returns the resolved configuration.
func GetConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

// newClient creates a management API client for the configured socket.
func newClient(c *cli.Context) *connection.Client {
	return connection.New(GetConfig(c).Socket)
}

// requestContext bounds a single API call.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, connection.DefaultTimeout+5*time.Second)
}

// render writes data in the configured output format.
func render(c *cli.Context, data any) error {
	format, err := output.ParseFormat(GetConfig(c).Output)
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

// isTable reports whether the configured output is a table.
func isTable(c *cli.Context) bool {
	f, _ := output.ParseFormat(GetConfig(c).Output)
	return f == output.FormatTable
}

// withSpinner runs fn with a progress spinner on interactive stderr.
func withSpinner(c *cli.Context, message string, fn func() error) error {
	if !output.IsTerminal(c.App.ErrWriter) {
		return fn()
	}
	s := output.NewSpinner(c.App.ErrWriter, message)
	s.Start()
	defer s.Stop()
	return fn()
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
