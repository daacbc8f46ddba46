package command

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/netkeep-go/internal/cli/output"
	"github.com/yndnr/netkeep-go/internal/server/daemon"
	"github.com/yndnr/netkeep-go/internal/server/mgmtserver/handler"
)

// SettingsCommand returns the settings subcommand group.
func SettingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Read and change persisted settings",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Show a value, or the keys of a section",
				ArgsUsage: "[PATH]",
				Action:    settingsGet,
			},
			{
				Name:      "set",
				Usage:     "Set a value, creating missing sections",
				ArgsUsage: "PATH VALUE",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "string",
						Usage: "Store VALUE verbatim instead of parsing numbers and booleans",
					},
				},
				Action: settingsSet,
			},
			{
				Name:   "dump",
				Usage:  "Show every stored value",
				Action: settingsDump,
			},
			{
				Name:   "reset",
				Usage:  "Restore the default settings",
				Action: settingsReset,
			},
		},
	}
}

func settingsGet(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var v daemon.SettingValue
	query := url.Values{"path": {c.Args().First()}}
	if err := newClient(c).Get(ctx, "/v1/settings", query, &v); err != nil {
		return err
	}
	return printSetting(c, v)
}

func settingsSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: settings set PATH VALUE")
	}
	path, raw := c.Args().Get(0), c.Args().Get(1)

	var value any = raw
	if !c.Bool("string") {
		value = parseScalar(raw)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var v daemon.SettingValue
	req := handler.SetSettingRequest{Path: path, Value: value}
	if err := newClient(c).Put(ctx, "/v1/settings", req, &v); err != nil {
		return err
	}
	return printSetting(c, v)
}

func settingsDump(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var values map[string]string
	if err := newClient(c).Get(ctx, "/v1/settings/dump", nil, &values); err != nil {
		return err
	}
	return render(c, values)
}

func settingsReset(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var result map[string]bool
	if err := newClient(c).Post(ctx, "/v1/settings/reset", nil, &result); err != nil {
		return err
	}
	if !isTable(c) {
		return render(c, result)
	}
	fmt.Fprintln(c.App.Writer, "Settings reset to defaults")
	return nil
}

func printSetting(c *cli.Context, v daemon.SettingValue) error {
	if !isTable(c) {
		return render(c, v)
	}
	if v.Value != nil {
		fmt.Fprintln(c.App.Writer, *v.Value)
		return nil
	}
	table := &output.Table{Headers: []string{"KEY"}}
	for _, k := range v.Keys {
		if v.Path != "" {
			k = v.Path + "." + k
		}
		table.AddRow(k)
	}
	return table.Render(c.App.Writer)
}

// parseScalar turns integers, floats and booleans into typed values.
func parseScalar(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
