package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

const name = "gaugepanel"

// overridden during build with ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Measurement dashboard with unit conversion",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default is ./config.yaml or $HOME/.gaugepanel/config.yaml)",
				Sources: cli.EnvVars("GAUGEPANEL_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "dashboard",
				Usage: "dashboard document, overrides dashboard.path",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error), overrides log.level",
			},
		},
		Commands: []*cli.Command{
			runCmd(),
			unitsCmd(),
			addCmd(),
			removeCmd(),
			setUnitCmd(),
			setModeCmd(),
			setThresholdCmd(),
		},
	}
}
