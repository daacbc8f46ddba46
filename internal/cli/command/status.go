package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/netkeep-go/internal/server/daemon"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show connectivity and daemon status",
		Action: statusShow,
	}
}

func statusShow(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var st daemon.Status
	if err := newClient(c).Get(ctx, "/v1/status", nil, &st); err != nil {
		return err
	}
	return render(c, st)
}
