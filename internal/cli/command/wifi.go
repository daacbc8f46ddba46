package command

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/netkeep-go/internal/cli/output"
	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/server/mgmtserver/handler"
)

// WifiCommand returns the wifi subcommand group.
func WifiCommand() *cli.Command {
	return &cli.Command{
		Name:  "wifi",
		Usage: "Manage the Wi-Fi client connection",
		Subcommands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "List visible networks",
				Action: wifiScan,
			},
			{
				Name:  "saved",
				Usage: "Manage saved networks",
				Subcommands: []*cli.Command{
					{
						Name:    "list",
						Aliases: []string{"ls"},
						Usage:   "List saved networks",
						Action:  wifiSavedList,
					},
					{
						Name:  "add",
						Usage: "Save a network",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "ssid",
								Usage:    "Network name",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "password",
								Aliases:  []string{"p"},
								Usage:    "Network password",
								Required: true,
							},
							&cli.IntFlag{
								Name:  "priority",
								Usage: "Connection priority, lower first",
							},
						},
						Action: wifiSavedAdd,
					},
					{
						Name:      "remove",
						Aliases:   []string{"rm"},
						Usage:     "Forget a saved network",
						ArgsUsage: "SSID",
						Action:    wifiSavedRemove,
					},
					{
						Name:   "connect",
						Usage:  "Join the best visible saved network",
						Action: wifiSavedConnect,
					},
				},
			},
			{
				Name:      "connect",
				Usage:     "Join a network",
				ArgsUsage: "SSID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Network password",
						Required: true,
					},
				},
				Action: wifiConnect,
			},
			{
				Name:   "disconnect",
				Usage:  "Drop the client connection and start the hotspot",
				Action: wifiDisconnect,
			},
		},
	}
}

func wifiScan(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var result handler.ScanResponse
	err := withSpinner(c, "Scanning...", func() error {
		return newClient(c).Get(ctx, "/v1/wifi/scan", nil, &result)
	})
	if err != nil {
		return err
	}

	if !isTable(c) {
		return render(c, result.Networks)
	}
	table := &output.Table{Headers: []string{"SSID", "SIGNAL", "DBM", "ADDRESS"}}
	for _, n := range result.Networks {
		table.AddRow(n.SSID, fmt.Sprintf("%d%%", n.SignalPercent), strconv.Itoa(n.SignalDBm), n.Address)
	}
	if err := table.Render(c.App.Writer); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\nTotal: %d networks\n", len(result.Networks))
	return nil
}

func wifiSavedList(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var result handler.SavedNetworksResponse
	if err := newClient(c).Get(ctx, "/v1/wifi/saved", nil, &result); err != nil {
		return err
	}

	if !isTable(c) {
		return render(c, result.Networks)
	}
	table := &output.Table{Headers: []string{"SSID", "PRIORITY"}}
	for _, n := range result.Networks {
		priority := "-"
		if n.Priority != nil {
			priority = strconv.Itoa(*n.Priority)
		}
		table.AddRow(n.SSID, priority)
	}
	return table.Render(c.App.Writer)
}

func wifiSavedAdd(c *cli.Context) error {
	req := handler.AddSavedNetworkRequest{
		SSID:     c.String("ssid"),
		Password: c.String("password"),
	}
	if c.IsSet("priority") {
		p := c.Int("priority")
		req.Priority = &p
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var result domain.SavedNetwork
	if err := newClient(c).Post(ctx, "/v1/wifi/saved", req, &result); err != nil {
		return err
	}
	if !isTable(c) {
		return render(c, result)
	}
	fmt.Fprintf(c.App.Writer, "Saved network %q\n", req.SSID)
	return nil
}

func wifiSavedRemove(c *cli.Context) error {
	ssid := c.Args().First()
	if ssid == "" {
		return fmt.Errorf("SSID required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var result handler.ConnectResponse
	if err := newClient(c).Delete(ctx, "/v1/wifi/saved/"+url.PathEscape(ssid), &result); err != nil {
		return err
	}
	if !isTable(c) {
		return render(c, result)
	}
	fmt.Fprintf(c.App.Writer, "Removed network %q\n", ssid)
	return nil
}

func wifiSavedConnect(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var result handler.ConnectResponse
	err := withSpinner(c, "Connecting...", func() error {
		return newClient(c).Post(ctx, "/v1/wifi/saved/connect", nil, &result)
	})
	if err != nil {
		return err
	}
	return printConnected(c, result)
}

func wifiConnect(c *cli.Context) error {
	ssid := c.Args().First()
	if ssid == "" {
		return fmt.Errorf("SSID required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	req := handler.ConnectRequest{SSID: ssid, Password: c.String("password")}
	var result handler.ConnectResponse
	err := withSpinner(c, "Connecting...", func() error {
		return newClient(c).Post(ctx, "/v1/wifi/connect", req, &result)
	})
	if err != nil {
		return err
	}
	return printConnected(c, result)
}

func printConnected(c *cli.Context, result handler.ConnectResponse) error {
	if !isTable(c) {
		return render(c, result)
	}
	fmt.Fprintf(c.App.Writer, "Connected to %q\n", result.SSID)
	return nil
}

func wifiDisconnect(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var result map[string]any
	if err := newClient(c).Post(ctx, "/v1/wifi/disconnect", nil, &result); err != nil {
		return err
	}
	if !isTable(c) {
		return render(c, result)
	}
	fmt.Fprintln(c.App.Writer, "Disconnected; hotspot enabled")
	return nil
}
