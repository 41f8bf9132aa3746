package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/rota/internal/models"
	"github.com/julianstephens/rota/internal/scheduler"
	"github.com/julianstephens/rota/internal/view"
)

type SolveCmd struct {
	Budget time.Duration `help:"Solver time budget, overriding the policy (e.g. 10s)."`
	Yes    bool          `short:"y" help:"Save the solved roster without asking."`
	DryRun bool          `help:"Solve and print the roster without saving it."`
}

func (c *SolveCmd) Run(ctx *Context) error {
	if c.Budget > 0 {
		cfg := ctx.Service.Scheduler.Config()
		cfg.TimeBudget = c.Budget
		ctx.Service.Scheduler = scheduler.New(
			scheduler.WithConfig(cfg),
			scheduler.WithMetrics(ctx.Service.Metrics),
		)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx.printf("Solving (budget %s)...\n", ctx.Service.Scheduler.Config().TimeBudget)
	outcome, err := ctx.Service.Solve(runCtx)
	if err != nil {
		if scheduler.IsInfeasible(err) {
			ctx.println("No roster satisfies the current preferences. Run 'rota validate' to find conflicting requests.")
		}
		return err
	}

	ctx.printf("✓ %s in %s\n\n", outcome.Status, outcome.Duration.Round(time.Millisecond))
	ctx.println(view.Render(view.FromSchedule(outcome.Schedule), models.WeekOf(ctx.today()).Key()))

	if c.DryRun {
		ctx.println("Dry run: roster not saved.")
		return nil
	}

	if !c.Yes {
		accept := true
		confirm := huh.NewConfirm().
			Title("Save this roster?").
			Description("The current schedule is backed up first.").
			Affirmative("Save").
			Negative("Discard").
			Value(&accept)
		if err := confirm.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
		if !accept {
			ctx.println("Roster discarded.")
			return nil
		}
	}

	if err := ctx.Service.Accept(outcome); err != nil {
		return err
	}
	ctx.printf("✓ Saved roster (run %s)\n", outcome.RunID)
	return nil
}
