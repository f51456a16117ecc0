package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/roffe/gaugepanel/pkg/config"
	"github.com/roffe/gaugepanel/pkg/logger"
	"github.com/roffe/gaugepanel/pkg/panel"
	"github.com/roffe/gaugepanel/pkg/streambundle"
	"github.com/roffe/gaugepanel/pkg/units"
)

// app is everything a command needs: config, the stream bundle and the loaded panel.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	bundle *streambundle.Bundle
	panel  *panel.Panel
}

func newApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if p := cmd.String("dashboard"); p != "" {
		cfg.Dashboard.Path = p
	}
	if l := cmd.String("log-level"); l != "" {
		cfg.Log.Level = l
	}

	log := logger.New(cfg.Log.Level)
	bundle := streambundle.New(&streambundle.Config{
		CacheTTL: cfg.Bundle.CacheTTL,
		Units:    cfg.Units,
		Log:      log.SugaredLogger,
	})
	p := panel.New(&panel.Config{
		Store:           &panel.FileStore{Path: cfg.Dashboard.Path},
		Bundle:          bundle,
		Registry:        units.Default(),
		Columns:         cfg.Grid.Columns,
		Padding:         cfg.Grid.Padding,
		PersistAttempts: cfg.Persist.Attempts,
		PersistDelay:    cfg.Persist.Delay,
		Log:             log.SugaredLogger,
	})
	if err := p.Load(ctx); err != nil {
		bundle.Close()
		return nil, err
	}
	log.Debugw("dashboard loaded", "path", cfg.Dashboard.Path, "widgets", len(p.Widgets()))
	return &app{cfg: cfg, log: log, bundle: bundle, panel: p}, nil
}

func (a *app) Close() {
	a.panel.Close()
	a.bundle.Close()
	_ = a.log.Sync()
}

// withApp wraps a command action with app setup and teardown.
func withApp(fn func(ctx context.Context, cmd *cli.Command, a *app) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, cmd, a)
	}
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() != n {
		return fmt.Errorf("%s: expected %d arguments, got %d (usage: %s %s)",
			cmd.Name, n, cmd.NArg(), cmd.Name, cmd.ArgsUsage)
	}
	return nil
}
