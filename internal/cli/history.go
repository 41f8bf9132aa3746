package cli

import (
	"github.com/julianstephens/rota/internal/constants"
)

type HistoryCmd struct {
	Limit int `help:"Number of runs to show (0 for all)." default:"10"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	runs, err := ctx.Service.Runs(c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		ctx.println("No solves recorded yet.")
		return nil
	}

	for _, r := range runs {
		ctx.printf("%s  %-10s  %6dms  %2d devs x %2d weeks  %s\n",
			r.StartedAt.Local().Format(constants.DateFormat+" 15:04:05"),
			r.Status, r.DurationMs, r.Developers, r.Weeks, r.ID)
		if r.Message != "" {
			ctx.printf("    %s\n", r.Message)
		}
	}
	return nil
}
