package cli

import (
	"github.com/julianstephens/rota/internal/models"
)

type PreferCmd struct {
	Developer string `arg:"" help:"Developer name."`
	Date      string `arg:"" help:"Any date in the week (YYYY-MM-DD or 'today')."`
	Sentiment string `arg:"" help:"VERY_NEGATIVE, NEGATIVE, NEUTRAL, POSITIVE, VERY_POSITIVE or -2..2."`
}

func (c *PreferCmd) Run(ctx *Context) error {
	day, err := ctx.parseDay(c.Date)
	if err != nil {
		return err
	}
	sentiment, err := models.ParseSentiment(c.Sentiment)
	if err != nil {
		return err
	}

	replaced, err := ctx.Service.Prefer(c.Developer, day, sentiment)
	if err != nil {
		return err
	}
	verb := "Recorded"
	if replaced {
		verb = "Replaced"
	}
	ctx.printf("✓ %s %s preference for %s in week %s\n", verb, sentiment, c.Developer, weekLabel(day))
	if sentiment.Forced() {
		ctx.println("  This preference is binding at the next solve.")
	}
	return nil
}

type VacationCmd struct {
	Developer string `arg:"" help:"Developer name."`
	Date      string `arg:"" help:"Any date in the week away (YYYY-MM-DD or 'today')."`
}

func (c *VacationCmd) Run(ctx *Context) error {
	day, err := ctx.parseDay(c.Date)
	if err != nil {
		return err
	}
	if _, err := ctx.Service.Vacation(c.Developer, day); err != nil {
		return err
	}
	ctx.printf("✓ %s is off support in week %s\n", c.Developer, weekLabel(day))
	return nil
}

type UnpreferCmd struct {
	Developer string `arg:"" help:"Developer name."`
	Date      string `arg:"" help:"Any date in the week (YYYY-MM-DD or 'today')."`
}

func (c *UnpreferCmd) Run(ctx *Context) error {
	day, err := ctx.parseDay(c.Date)
	if err != nil {
		return err
	}
	removed, err := ctx.Service.Unprefer(c.Developer, day)
	if err != nil {
		return err
	}
	if !removed {
		ctx.printf("%s has no preference for week %s\n", c.Developer, weekLabel(day))
		return nil
	}
	ctx.printf("✓ Removed %s's preference for week %s\n", c.Developer, weekLabel(day))
	return nil
}
