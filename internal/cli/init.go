package cli

import (
	"errors"

	apperrors "github.com/julianstephens/rota/internal/errors"
	"github.com/julianstephens/rota/internal/utils"
)

type InitCmd struct {
	Force bool `help:"Reseed the schedule even if one is already stored, discarding preferences and assignments."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}

	if !c.Force {
		if _, err := ctx.Store.LoadSchedule(); err == nil {
			ctx.printf("Storage at %s already holds a schedule (use --force to reseed)\n", ctx.Store.GetConfigPath())
			return nil
		} else if !errors.Is(err, apperrors.ErrNotInitialized) {
			return err
		}
	}

	sched, err := ctx.Service.Reset()
	if err != nil {
		return err
	}
	weeks := sched.WeeksSortedByFirstDay()
	ctx.printf("Initialized rota storage at: %s\n", ctx.Store.GetConfigPath())
	ctx.printf("Seeded %d developers over %d weeks (%s to %s)\n",
		sched.NumDevelopers(), len(weeks),
		weeks[0].Key(), utils.FormatDate(weeks[len(weeks)-1].LastDay()))
	return nil
}
