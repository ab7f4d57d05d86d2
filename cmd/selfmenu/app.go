package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/selfmenu/internal/config"
	"github.com/hammamikhairi/selfmenu/internal/display"
	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/engine"
	"github.com/hammamikhairi/selfmenu/internal/feedback"
	"github.com/hammamikhairi/selfmenu/internal/livestatus"
	"github.com/hammamikhairi/selfmenu/internal/logger"
	"github.com/hammamikhairi/selfmenu/internal/storage"
)

// app is everything one command invocation needs. Every invocation is a
// fresh process, so the controller starts Idle and is restored per command.
type app struct {
	cfg *config.Config
	log *logger.Logger
	out *display.Printer

	db        *storage.SQLiteStore
	recipes   domain.RecipeStore
	files     *livestatus.FilePublisher // nil when live status is off
	publisher domain.LiveStatusPublisher
	chime     *feedback.Chime // nil when the chime is off or unavailable
	ctl       *engine.Controller
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Level()
	if verbose {
		level = logger.LevelVerbose
	}
	if quiet {
		level = logger.LevelOff
	}
	log := logger.New(level, cmd.ErrOrStderr())

	db, err := storage.OpenSQLite(cfg.Database, log.Named("storage"))
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		out:       display.NewPrinter(cmd.OutOrStdout()),
		db:        db,
		recipes:   db.Recipes(),
		publisher: livestatus.Disabled{},
	}

	if cfg.LiveStatus {
		files, err := livestatus.NewFilePublisher(cfg.ActivityDir, log.Named("livestatus"))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.files = files
		a.publisher = files
	}

	var fb domain.Feedback = feedback.NoOp{}
	if cfg.Chime {
		chime, err := feedback.NewChime(log.Named("chime"), cfg.Volume)
		if err != nil {
			log.Warn("chime unavailable, continuing silently: %v", err)
		} else {
			a.chime = chime
			fb = chime
		}
	}

	a.ctl = engine.New(a.recipes, db, a.publisher, log.Named("engine"), engine.WithFeedback(fb))
	log.Debug("config: db=%s activities=%s live_status=%t chime=%t", cfg.Database, cfg.ActivityDir, cfg.LiveStatus, cfg.Chime)
	return a, nil
}

func (a *app) Close() error {
	if a.chime != nil {
		a.chime.Stop()
	}
	return a.db.Close()
}

// withApp wraps a command body with openApp and Close.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				a.log.Warn("closing: %v", err)
			}
		}()
		return fn(cmd, a, args)
	}
}

// requireFiles returns the file publisher or an error naming the setting.
func (a *app) requireFiles() (*livestatus.FilePublisher, error) {
	if a.files == nil {
		return nil, fmt.Errorf("live status is disabled (live_status = false): %w", domain.ErrPublisherUnavailable)
	}
	return a.files, nil
}

func isInvalidState(err error) bool {
	return errors.Is(err, domain.ErrInvalidState)
}
