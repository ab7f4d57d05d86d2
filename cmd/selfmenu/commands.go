package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/selfmenu/internal/display"
	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/engine"
	"github.com/hammamikhairi/selfmenu/internal/recipe"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recipe deck",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		recipes, err := a.recipes.List(cmd.Context())
		if err != nil {
			return err
		}
		a.out.Println(display.RenderList(recipes))
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show <recipe>",
	Short: "Show both sides of a recipe card",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		r, err := recipe.Lookup(cmd.Context(), a.recipes, args[0])
		if err != nil {
			return err
		}
		a.out.Println(display.RenderCard(r))
		return nil
	}),
}

var startCmd = &cobra.Command{
	Use:   "start <recipe>",
	Short: "Start cooking a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		ctx := cmd.Context()
		r, err := recipe.Lookup(ctx, a.recipes, args[0])
		if err != nil {
			return err
		}
		if _, err := a.ctl.Restore(ctx, r.ID); err != nil {
			return err
		}

		res, err := a.ctl.Start(ctx, r.ID)
		if isInvalidState(err) {
			elapsed, _ := a.ctl.Elapsed()
			a.out.PrintUrgent(fmt.Sprintf("%s is already cooking (%s).", r.Name, display.FormatClock(elapsed)))
			return err
		}
		if err != nil {
			return err
		}

		a.out.PrintStep(fmt.Sprintf("Started %s at %s.", r.Name, res.Session.StartedAt.Local().Format("15:04")))
		if res.PublisherUnavailable && a.files != nil {
			a.out.PrintHint("The live status could not be shown.")
		}
		if res.PersistenceFailed {
			a.out.PrintUrgent("Could not save the session; it will not survive a restart.")
		}
		return nil
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop [recipe]",
	Short: "Stop the running session and record its duration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withApp(runStop),
}

func runStop(cmd *cobra.Command, a *app, args []string) error {
	ctx := cmd.Context()
	r, err := resolveRecipe(ctx, a, args)
	if err != nil {
		return err
	}
	if _, err := a.ctl.Restore(ctx, r.ID); err != nil {
		return err
	}

	res, err := a.ctl.Stop(ctx)
	if isInvalidState(err) {
		a.out.PrintUrgent(fmt.Sprintf("%s is not cooking.", r.Name))
		return err
	}
	if err != nil {
		return err
	}

	a.out.PrintStep(engine.DefaultFinalText(res.RecipeName, res.Duration()))
	if res.Recipe != nil {
		a.out.PrintHint(display.Stats(res.Recipe))
	}
	if res.PersistenceFailed {
		a.out.PrintUrgent("Could not save everything; statistics may be stale.")
	}
	return nil
}

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Handle a selfmenu:// link, such as the live status stop button",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		u, err := url.Parse(args[0])
		if err != nil {
			return fmt.Errorf("parse link: %w", err)
		}
		if u.Scheme != "selfmenu" {
			return fmt.Errorf("not a selfmenu link: %s", args[0])
		}
		switch u.Host {
		case "stopCooking":
			return runStop(cmd, a, nil)
		default:
			return fmt.Errorf("unknown selfmenu link %q", u.Host)
		}
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status [recipe]",
	Short: "Show whether a recipe is cooking and for how long",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		ctx := cmd.Context()
		r, err := resolveRecipe(ctx, a, args)
		if errors.Is(err, errNothingCooking) {
			a.out.PrintHint("Nothing is cooking.")
			return nil
		}
		if err != nil {
			return err
		}

		status, err := a.ctl.Restore(ctx, r.ID)
		if err != nil {
			return err
		}
		if status != domain.SessionRunning {
			a.out.PrintHint(fmt.Sprintf("%s is idle.", r.Name))
			return nil
		}
		elapsed, err := a.ctl.Elapsed()
		if err != nil {
			return err
		}
		a.out.Println(display.RenderStatus(r.Name, elapsed, 0))
		return nil
	}),
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss every live status, as if swiped away",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		files, err := a.requireFiles()
		if err != nil {
			return err
		}
		n, err := files.Dismiss(cmd.Context())
		if err != nil {
			return err
		}
		a.out.PrintHint(fmt.Sprintf("Dismissed %d live status(es).", n))
		return nil
	}),
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the demo cards to an empty deck",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		n, err := recipe.Seed(cmd.Context(), a.recipes)
		if err != nil {
			return err
		}
		if n == 0 {
			a.out.PrintHint("The deck already has cards.")
			return nil
		}
		a.out.PrintStep(fmt.Sprintf("Added %d demo cards.", n))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(listCmd, showCmd, startCmd, stopCmd, openCmd, statusCmd, dismissCmd, seedCmd)
}

var errNothingCooking = errors.New("nothing is cooking; name a recipe")

// resolveRecipe looks up the named recipe, or the one the durable store
// says is cooking when no name is given.
func resolveRecipe(ctx context.Context, a *app, args []string) (*domain.Recipe, error) {
	if len(args) > 0 {
		return recipe.Lookup(ctx, a.recipes, args[0])
	}
	id, err := a.db.Get(ctx, engine.KeyRecipeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errNothingCooking
	}
	if err != nil {
		return nil, err
	}
	r, err := a.recipes.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", id, err)
	}
	return r, nil
}
