package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/netkeep-go/internal/server/mgmtserver/handler"
)

// HotspotCommand returns the hotspot subcommand group.
func HotspotCommand() *cli.Command {
	return &cli.Command{
		Name:  "hotspot",
		Usage: "Manage the fallback hotspot",
		Subcommands: []*cli.Command{
			{
				Name:      "password",
				Usage:     "Change the hotspot password",
				ArgsUsage: "PASSWORD",
				Action:    hotspotPassword,
			},
		},
	}
}

func hotspotPassword(c *cli.Context) error {
	password := c.Args().First()
	if password == "" {
		return fmt.Errorf("password required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var result map[string]bool
	req := handler.HotspotPasswordRequest{Password: password}
	if err := newClient(c).Post(ctx, "/v1/hotspot/password", req, &result); err != nil {
		return err
	}
	if !isTable(c) {
		return render(c, result)
	}
	fmt.Fprintln(c.App.Writer, "Hotspot password changed")
	return nil
}
