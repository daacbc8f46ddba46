package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/netkeep-go/internal/server/mgmtserver/handler"
)

// ActivityCommand returns the activity subcommand group.
func ActivityCommand() *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Report user activity to the daemon",
		Subcommands: []*cli.Command{
			{
				Name:   "touch",
				Usage:  "Mark the device as in use, postponing reconciliation",
				Action: activityTouch,
			},
		},
	}
}

func activityTouch(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var result handler.ActivityResponse
	if err := newClient(c).Post(ctx, "/v1/activity", nil, &result); err != nil {
		return err
	}
	if !isTable(c) {
		return render(c, result)
	}
	fmt.Fprintf(c.App.Writer, "Activity recorded at %s\n", result.LastActivity.Local().Format(time.DateTime))
	return nil
}
