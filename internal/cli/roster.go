package cli

import "github.com/julianstephens/rota/internal/utils"

type DevAddCmd struct {
	Name string `arg:"" help:"Name of the developer to add."`
}

func (c *DevAddCmd) Run(ctx *Context) error {
	if err := ctx.Service.AddDeveloper(c.Name); err != nil {
		return err
	}
	ctx.printf("✓ Added %s (off support in every week until the next solve)\n", c.Name)
	return nil
}

type HorizonExtendCmd struct {
	Weeks int `arg:"" help:"Number of weeks to append."`
}

func (c *HorizonExtendCmd) Run(ctx *Context) error {
	added, err := ctx.Service.ExtendHorizon(c.Weeks)
	if err != nil {
		return err
	}
	ctx.printf("✓ Extended horizon by %d week(s): %s to %s\n",
		len(added), added[0].Key(), utils.FormatDate(added[len(added)-1].LastDay()))
	return nil
}
