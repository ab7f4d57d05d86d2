package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/selfmenu/internal/display"
	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/recipe"
	"github.com/hammamikhairi/selfmenu/internal/timer"
)

var watchSteps []int

var watchCmd = &cobra.Command{
	Use:   "watch <recipe>",
	Short: "Follow a running session live and ring step alarms",
	Long: `Follow a running session, redrawing the elapsed time every tick.

Use --step to arm the alarm printed on the back of the card for that step.
Watch ends by itself when the session is stopped from another terminal or
its live status is dismissed; Ctrl-C leaves the session running.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runWatch),
}

func init() {
	watchCmd.Flags().IntSliceVar(&watchSteps, "step", nil, "arm the alarm for step `N` (repeatable)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, a *app, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := recipe.Lookup(ctx, a.recipes, args[0])
	if err != nil {
		return err
	}
	status, err := a.ctl.Restore(ctx, r.ID)
	if err != nil {
		return err
	}
	if status != domain.SessionRunning {
		a.out.PrintUrgent(fmt.Sprintf("%s is not cooking. Start it with 'selfmenu start %q'.", r.Name, r.Name))
		return fmt.Errorf("watch %s: %w", r.Name, domain.ErrInvalidState)
	}

	notifier := display.NewCLINotifier(a.log.Named("notify"), a.out)

	// The controller has no locks: from here on only the supervisor
	// goroutine touches it.
	source := func(ctx context.Context) (timer.Snapshot, error) {
		status, err := a.ctl.Restore(ctx, r.ID)
		if err != nil {
			return timer.Snapshot{}, err
		}
		snap := timer.Snapshot{Session: a.ctl.Session()}
		if status == domain.SessionRunning {
			snap.Elapsed, _ = a.ctl.Elapsed()
		}
		return snap, nil
	}

	sup := timer.New(source, notifier, a.log.Named("timer"),
		timer.WithTickInterval(a.cfg.Tick.Std()),
		timer.WithOnTick(func(s timer.Snapshot) {
			a.out.Overwrite(display.RenderStatus(s.Session.RecipeName, s.Elapsed, 0))
		}),
		timer.WithWatcher(timer.NewWatcher(a.recipes, notifier, a.log.Named("watcher"))),
	)

	for _, n := range watchSteps {
		if n < 1 || n > len(r.Steps) {
			return fmt.Errorf("%s has no step %d", r.Name, n)
		}
		st := r.Steps[n-1]
		if !st.HasAlarm() {
			return fmt.Errorf("step %d of %s has no alarm", n, r.Name)
		}
		label := fmt.Sprintf("Step %d (%s)", n, st.Instruction)
		if err := sup.Arm(label, st.Alarm); err != nil {
			return err
		}
		a.out.PrintHint(fmt.Sprintf("Alarm for step %d set for %s.", n, display.FormatClock(st.Alarm)))
	}

	elapsed, _ := a.ctl.Elapsed()
	a.out.Overwrite(display.RenderStatus(r.Name, elapsed, 0))

	sup.Start(ctx)
	select {
	case <-sup.Done():
	case <-ctx.Done():
	}
	sup.Stop()
	<-sup.Done()

	if !sup.Ended() {
		a.out.PrintHint(fmt.Sprintf("Still cooking. Run 'selfmenu stop %q' when it's done.", r.Name))
		return nil
	}

	a.out.PrintStep(fmt.Sprintf("%s is no longer cooking.", r.Name))
	if a.files != nil {
		if last, err := a.files.Latest(ctx); err == nil && !last.Active() && last.FinalText != "" {
			a.out.Println(display.RenderEnded(last.FinalText))
		}
	}
	return nil
}
