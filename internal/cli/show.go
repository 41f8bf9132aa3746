package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/view"
)

type ShowCmd struct {
	Week  string `help:"Show only the week containing this date (YYYY-MM-DD or 'today')."`
	Plain bool   `help:"Print a plain-text grid instead of a styled table."`
}

func (c *ShowCmd) Run(ctx *Context) error {
	sched, err := ctx.Service.Schedule()
	if err != nil {
		return err
	}

	if c.Week != "" {
		day, err := ctx.parseDay(c.Week)
		if err != nil {
			return err
		}
		week, ok := sched.WeekContaining(day)
		if !ok {
			return fmt.Errorf("%s is outside the scheduled horizon", weekLabel(day))
		}
		row := view.WeekView(sched, week)
		ctx.printf("Week %s\n", row.DateRange)
		if len(row.OnSupport) == 0 {
			ctx.println("  Nobody on support")
			return nil
		}
		ctx.printf("  On support: %s\n", strings.Join(row.OnSupport, ", "))
		return nil
	}

	roster := view.FromSchedule(sched)
	if c.Plain {
		ctx.printf("%s", view.Plain(roster))
		return nil
	}
	ctx.println(view.Render(roster, models.WeekOf(ctx.today()).Key()))
	return nil
}
